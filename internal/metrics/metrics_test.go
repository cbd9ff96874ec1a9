package metrics

import (
	"math"
	"testing"

	"github.com/skyward-labs/quadsim/internal/quad"
)

func TestTrackingErrorRMS(t *testing.T) {
	m := NewTrackingError()

	ref := quad.Reference{Pos: quad.Vec3{Z: 1}}
	m.Observe(0, quad.VehicleState{Pos: quad.Vec3{Z: 0}}, quad.RotorCommands{}, ref)  // error 1
	m.Observe(1, quad.VehicleState{Pos: quad.Vec3{Z: 1}}, quad.RotorCommands{}, ref)  // error 0
	m.Observe(2, quad.VehicleState{Pos: quad.Vec3{Z: -1}}, quad.RotorCommands{}, ref) // error 2

	want := math.Sqrt((1 + 0 + 4) / 3.0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("rms: got %g, want %g", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("value after reset: %g", m.Value())
	}
}

func TestControlEffortMean(t *testing.T) {
	m := NewControlEffort()

	m.Observe(0, quad.VehicleState{}, quad.RotorCommands{100, 200, 300, 400}, quad.Reference{})
	m.Observe(1, quad.VehicleState{}, quad.RotorCommands{500, 500, 500, 500}, quad.Reference{})

	want := (100.0 + 200 + 300 + 400 + 4*500) / 8
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("mean rate: got %g, want %g", m.Value(), want)
	}
}

func TestSaturationRatio(t *testing.T) {
	m := NewSaturation(100, 1000)

	m.Observe(0, quad.VehicleState{}, quad.RotorCommands{1000, 500, 500, 500}, quad.Reference{}) // 1 of 4
	m.Observe(1, quad.VehicleState{}, quad.RotorCommands{100, 100, 500, 500}, quad.Reference{})  // 2 of 4

	if math.Abs(m.Value()-3.0/8.0) > 1e-12 {
		t.Errorf("saturation ratio: got %g, want %g", m.Value(), 3.0/8.0)
	}
}

func TestSaturationIgnoresZeroFloor(t *testing.T) {
	m := NewSaturation(0, 1000)

	// with no floor, idle rotors are not saturation
	m.Observe(0, quad.VehicleState{}, quad.RotorCommands{0, 0, 0, 0}, quad.Reference{})
	if m.Value() != 0 {
		t.Errorf("zero rates counted as saturated: %g", m.Value())
	}
}

type constantEnergy struct {
	e float64
}

func (c *constantEnergy) Energy(s quad.VehicleState) float64 { return c.e }

func TestEnergyDrift(t *testing.T) {
	plant := &constantEnergy{e: 100}
	m := NewEnergyDrift(plant)

	m.Observe(0, quad.VehicleState{}, quad.RotorCommands{}, quad.Reference{})
	plant.e = 101
	m.Observe(1, quad.VehicleState{}, quad.RotorCommands{}, quad.Reference{})
	plant.e = 99.5
	m.Observe(2, quad.VehicleState{}, quad.RotorCommands{}, quad.Reference{})

	// max relative excursion from the initial energy
	if math.Abs(m.Value()-0.01) > 1e-12 {
		t.Errorf("drift: got %g, want 0.01", m.Value())
	}
}
