package integrators

import (
	"math"
	"testing"

	"github.com/skyward-labs/quadsim/internal/quad"
)

func TestRK45Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK45()

	x := quad.State{1, 0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	if math.Abs(x[0]-math.Cos(1)) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], math.Cos(1))
	}
}

func TestRK45StepSizeSuggestion(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK45()

	x := quad.State{1, 0}

	// a smooth problem at tiny dt has tiny local error, so the stepper
	// should suggest growing the step
	_, next, err := integ.StepAdaptive(dyn, x, nil, 0, 1e-4, 1e-6)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if next <= 1e-4 {
		t.Errorf("expected step growth, suggested %g", next)
	}

	// a coarse step against a tight tolerance should shrink
	_, next, err = integ.StepAdaptive(dyn, x, nil, 0, 0.5, 1e-12)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if next >= 0.5 {
		t.Errorf("expected step shrink, suggested %g", next)
	}
}

func TestRK45ImplementsAdaptive(t *testing.T) {
	var _ quad.AdaptiveIntegrator = NewRK45()
}
