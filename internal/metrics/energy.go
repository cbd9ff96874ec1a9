package metrics

import (
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// EnergyDrift tracks the largest relative change of total mechanical
// energy over a run, for plants that implement [quad.Hamiltonian].
// Under active control energy is not conserved, so this is mainly
// useful for unpowered (free-fall and coast) runs.
type EnergyDrift struct {
	plant    quad.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(plant quad.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{plant: plant}
}

func (m *EnergyDrift) Name() string { return "energy_drift" }

func (m *EnergyDrift) Observe(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	e := m.plant.Energy(s)
	if m.samples == 0 {
		m.initial = e
	}
	m.samples++
	if m.initial != 0 {
		drift := math.Abs(e-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *EnergyDrift) Value() float64 {
	return m.maxDrift
}

func (m *EnergyDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
