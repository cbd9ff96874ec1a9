// Package config defines the YAML configuration surface: vehicle
// constants, controller gains, trajectory parameters, and run settings.
// Values here are plain numbers; validation happens when the typed
// parameter objects are constructed from them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skyward-labs/quadsim/internal/quad"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
)

type Config struct {
	Model      string  `yaml:"model"`      // quadrotor | planar
	Integrator string  `yaml:"integrator"` // euler | rk4 | rk45
	Controller string  `yaml:"controller"` // altitude | cascade
	Trajectory string  `yaml:"trajectory"` // hover | jump | circle
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`

	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Gains     GainsConfig     `yaml:"gains"`
	Reference ReferenceConfig `yaml:"reference"`
	InitState InitStateConfig `yaml:"init_state"`
}

type VehicleConfig struct {
	Mass          float64 `yaml:"mass"`
	Ixx           float64 `yaml:"ixx"`
	Iyy           float64 `yaml:"iyy"`
	Izz           float64 `yaml:"izz"`
	RotorDiameter float64 `yaml:"rotor_diameter"`
	ThrustCoeff   float64 `yaml:"thrust_coeff"`
	TorqueCoeff   float64 `yaml:"torque_coeff"`
	ArmLength     float64 `yaml:"arm_length"`
	Gravity       float64 `yaml:"gravity"`
	AirDensity    float64 `yaml:"air_density"`
}

type GainsConfig struct {
	Kp      [3]float64 `yaml:"kp"`
	Kd      [3]float64 `yaml:"kd"`
	AttKp   [3]float64 `yaml:"att_kp"`
	AttKd   [3]float64 `yaml:"att_kd"`
	RateMin float64    `yaml:"rate_min"`
	RateMax float64    `yaml:"rate_max"`
}

type ReferenceConfig struct {
	// hover
	Point [3]float64 `yaml:"point"`
	Yaw   float64    `yaml:"yaw"`
	// jump
	StepTime float64 `yaml:"step_time"`
	Low      float64 `yaml:"low"`
	High     float64 `yaml:"high"`
	// circle
	Radius   float64 `yaml:"radius"`
	Omega    float64 `yaml:"omega"`
	Altitude float64 `yaml:"altitude"`
}

type InitStateConfig struct {
	Pos [3]float64 `yaml:"pos"`
	Vel [3]float64 `yaml:"vel"`
	Yaw float64    `yaml:"yaw"`
}

func DefaultConfig() *Config {
	p := quad.DefaultVehicleParams()
	return &Config{
		Model:      "quadrotor",
		Integrator: "rk4",
		Controller: "cascade",
		Trajectory: "hover",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Vehicle: VehicleConfig{
			Mass:          p.Mass,
			Ixx:           p.Inertia[0][0],
			Iyy:           p.Inertia[1][1],
			Izz:           p.Inertia[2][2],
			RotorDiameter: p.RotorDiameter,
			ThrustCoeff:   p.ThrustCoeff,
			TorqueCoeff:   p.TorqueCoeff,
			ArmLength:     p.ArmLength,
			Gravity:       p.Gravity,
			AirDensity:    p.AirDensity,
		},
		Gains: GainsConfig{
			Kp:      [3]float64{4, 4, 8},
			Kd:      [3]float64{3, 3, 4},
			AttKp:   [3]float64{40, 40, 10},
			AttKd:   [3]float64{8, 8, 4},
			RateMin: 0,
			RateMax: 1500,
		},
		Reference: ReferenceConfig{
			Point:    [3]float64{0, 0, 1},
			StepTime: 1.0,
			Low:      0,
			High:     1.0,
			Radius:   1.0,
			Omega:    0.5,
			Altitude: 1.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// VehicleParams builds the validated parameter object; invalid
// constants are rejected here before any component is constructed.
func (c *Config) VehicleParams() (quad.VehicleParams, error) {
	v := c.Vehicle
	return quad.NewVehicleParams(
		v.Mass,
		quad.Diag(v.Ixx, v.Iyy, v.Izz),
		v.RotorDiameter, v.ThrustCoeff, v.TorqueCoeff,
		v.ArmLength, v.Gravity, v.AirDensity,
	)
}

// InitVehicleState builds the initial condition, level at the given
// yaw unless the run config says otherwise.
func (c *Config) InitVehicleState() quad.VehicleState {
	return quad.VehicleState{
		Pos: quad.Vec3{X: c.InitState.Pos[0], Y: c.InitState.Pos[1], Z: c.InitState.Pos[2]},
		Vel: quad.Vec3{X: c.InitState.Vel[0], Y: c.InitState.Vel[1], Z: c.InitState.Vel[2]},
		Att: quad.QuatFromEuler(0, 0, c.InitState.Yaw),
	}
}
