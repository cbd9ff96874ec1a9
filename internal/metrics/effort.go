package metrics

import "github.com/skyward-labs/quadsim/internal/quad"

// ControlEffort is the mean commanded rotor rate across all four
// rotors, a rough proxy for energy spent actuating.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (m *ControlEffort) Name() string { return "control_effort" }

func (m *ControlEffort) Observe(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	for _, r := range cmd {
		m.sum += r
	}
	m.samples += len(cmd)
}

func (m *ControlEffort) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *ControlEffort) Reset() {
	m.sum = 0
	m.samples = 0
}

// Saturation is the fraction of rotor commands pinned at the rate
// bounds. Clamping is silent in the controller; this makes it
// observable per spec of the actuation limits.
type Saturation struct {
	min, max float64
	hits     int
	samples  int
}

func NewSaturation(min, max float64) *Saturation {
	return &Saturation{min: min, max: max}
}

func (m *Saturation) Name() string { return "saturation_ratio" }

func (m *Saturation) Observe(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	for _, r := range cmd {
		if r >= m.max || (m.min > 0 && r <= m.min) {
			m.hits++
		}
	}
	m.samples += len(cmd)
}

func (m *Saturation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.hits) / float64(m.samples)
}

func (m *Saturation) Reset() {
	m.hits = 0
	m.samples = 0
}
