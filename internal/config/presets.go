package config

// Presets are named run configurations. Only fields that differ from
// DefaultConfig are set; GetPreset merges them over the defaults.
var presets = map[string]func(*Config){
	"hover": func(c *Config) {
		c.Trajectory = "hover"
		c.Controller = "cascade"
		c.Duration = 10.0
		c.Reference.Point = [3]float64{0, 0, 1}
	},
	"jump": func(c *Config) {
		c.Trajectory = "jump"
		c.Controller = "altitude"
		c.Duration = 5.0
		c.Reference.StepTime = 1.0
		c.Reference.Low = 0
		c.Reference.High = 1.0
	},
	"circle": func(c *Config) {
		c.Trajectory = "circle"
		c.Controller = "cascade"
		c.Duration = 30.0
		c.Reference.Radius = 1.0
		c.Reference.Omega = 0.5
		c.Reference.Altitude = 1.0
		c.InitState.Pos = [3]float64{1, 0, 1}
	},
	"freefall": func(c *Config) {
		c.Trajectory = "hover"
		c.Controller = "none"
		c.Duration = 3.0
		c.InitState.Pos = [3]float64{0, 0, 10}
	},
	"planar-jump": func(c *Config) {
		c.Model = "planar"
		c.Trajectory = "jump"
		c.Controller = "altitude"
		c.Duration = 5.0
	},
}

func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
