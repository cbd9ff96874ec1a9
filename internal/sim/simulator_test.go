package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// descentPlant sinks at a constant rate, no dynamics involved.
type descentPlant struct {
	state quad.VehicleState
}

func (p *descentPlant) Step(t, dt float64, cmd quad.RotorCommands) (quad.VehicleState, error) {
	p.state.Pos.Z -= dt
	return p.state, nil
}

// failingPlant fails at a chosen step.
type failingPlant struct {
	failAt int
	n      int
}

func (p *failingPlant) Step(t, dt float64, cmd quad.RotorCommands) (quad.VehicleState, error) {
	if p.n == p.failAt {
		return quad.VehicleState{}, quad.ErrDiverged
	}
	p.n++
	return quad.VehicleState{Att: quad.QuatIdentity()}, nil
}

type fixedTrajectory struct{}

func (fixedTrajectory) Eval(t float64) quad.Reference {
	return quad.Reference{Time: t, Pos: quad.Vec3{Z: 1}}
}

type fixedController struct{}

func (fixedController) Step(t float64, ref quad.Reference, actual quad.VehicleState) quad.RotorCommands {
	return quad.RotorCommands{100, 100, 100, 100}
}

func TestSimulatorRun(t *testing.T) {
	plant := &descentPlant{state: quad.VehicleState{Pos: quad.Vec3{Z: 10}, Att: quad.QuatIdentity()}}
	s := New(plant, fixedTrajectory{}, fixedController{})

	h, err := s.Run(context.Background(), plant.state, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if h.Len() != 10 {
		t.Errorf("expected 10 ticks, got %d", h.Len())
	}
	if len(h.States) != h.Len() || len(h.Commands) != h.Len() || len(h.Refs) != h.Len() {
		t.Error("history slices out of step")
	}

	// times are the tick start instants
	for i, tm := range h.Times {
		if math.Abs(tm-float64(i)*0.1) > 1e-12 {
			t.Errorf("tick %d: time %g", i, tm)
		}
	}

	final := h.States[h.Len()-1]
	if math.Abs(final.Pos.Z-9) > 1e-9 {
		t.Errorf("expected final z=9, got %g", final.Pos.Z)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&descentPlant{}, fixedTrajectory{}, fixedController{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), quad.VehicleState{}, tt.cfg)
			if !errors.Is(err, quad.ErrBadConfig) {
				t.Errorf("expected ErrBadConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorStepError(t *testing.T) {
	s := New(&failingPlant{failAt: 7}, fixedTrajectory{}, fixedController{})

	h, err := s.Run(context.Background(), quad.VehicleState{}, Config{Dt: 0.1, Duration: 2.0})
	if err == nil {
		t.Fatal("expected failure")
	}

	var stepErr *quad.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
	if stepErr.Step != 7 {
		t.Errorf("expected failure at step 7, got %d", stepErr.Step)
	}
	if math.Abs(stepErr.Time-0.7) > 1e-12 {
		t.Errorf("expected failure time 0.7, got %g", stepErr.Time)
	}
	if !errors.Is(err, quad.ErrDiverged) {
		t.Error("wrapped cause lost")
	}

	// partial history up to the failing tick survives
	if h == nil || h.Len() != 7 {
		t.Errorf("expected 7 recorded ticks before the failure, got %v", h)
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&descentPlant{}, fixedTrajectory{}, fixedController{})
	h, err := s.Run(ctx, quad.VehicleState{}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if h == nil {
		t.Error("expected partial (empty) history, got nil")
	}
}

type countingMetric struct {
	count int
}

func (m *countingMetric) Name() string { return "count" }
func (m *countingMetric) Observe(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	m.count++
}
func (m *countingMetric) Value() float64 { return float64(m.count) }
func (m *countingMetric) Reset()         { m.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	plant := &descentPlant{state: quad.VehicleState{Att: quad.QuatIdentity()}}
	s := New(plant, fixedTrajectory{}, fixedController{})

	metric := &countingMetric{}
	s.AddMetric(metric)

	h, err := s.Run(context.Background(), plant.state, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := h.Metrics["count"]; !ok || v != 10 {
		t.Errorf("expected metric count=10, got %v (present=%v)", v, ok)
	}

	// a second run must reset, not accumulate
	plant2 := &descentPlant{state: quad.VehicleState{Att: quad.QuatIdentity()}}
	s2 := New(plant2, fixedTrajectory{}, fixedController{})
	s2.AddMetric(metric)
	h2, err := s2.Run(context.Background(), plant2.state, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if h2.Metrics["count"] != 10 {
		t.Errorf("metric not reset between runs: %v", h2.Metrics["count"])
	}
}

type recordingObserver struct {
	ticks []float64
}

func (o *recordingObserver) OnStep(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	o.ticks = append(o.ticks, t)
}

func TestSimulatorObserver(t *testing.T) {
	plant := &descentPlant{state: quad.VehicleState{Att: quad.QuatIdentity()}}
	s := New(plant, fixedTrajectory{}, fixedController{})

	obs := &recordingObserver{}
	s.AddObserver(obs)

	if _, err := s.Run(context.Background(), plant.state, Config{Dt: 0.1, Duration: 0.5}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(obs.ticks) != 5 {
		t.Errorf("expected 5 observer calls, got %d", len(obs.ticks))
	}
}
