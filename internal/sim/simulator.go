// Package sim orchestrates the simulation loop: at each fixed tick it
// evaluates the trajectory, runs the controller, advances the plant,
// and appends to the run history. The loop is single-threaded and
// sequential; a full tick is the atomic unit of work.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// Config holds the run parameters.
type Config struct {
	Dt       float64
	Duration float64
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt %g", quad.ErrBadConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration %g", quad.ErrBadConfig, c.Duration)
	}
	return nil
}

// Simulator wires a plant, a trajectory, and a controller into a
// closed loop. The plant owns the vehicle state; the simulator only
// ever sees it as the return value of Step.
type Simulator struct {
	plant      quad.Plant
	trajectory quad.Trajectory
	controller quad.Controller
	metrics    []quad.Metric
	observers  []quad.Observer
}

func New(plant quad.Plant, trajectory quad.Trajectory, controller quad.Controller) *Simulator {
	return &Simulator{
		plant:      plant,
		trajectory: trajectory,
		controller: controller,
	}
}

func (s *Simulator) AddMetric(m quad.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o quad.Observer) { s.observers = append(s.observers, o) }

// Run advances from t=0 to cfg.Duration in fixed steps of cfg.Dt and
// returns the accumulated history. x0 must match the plant's initial
// condition; it is only used as the controller input on the first tick.
// Any plant failure is fatal and returned wrapped with the failing tick
// index and time, alongside the history accumulated so far.
func (s *Simulator) Run(ctx context.Context, x0 quad.VehicleState, cfg Config) (*quad.History, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	h := &quad.History{
		Times:    make([]float64, 0, steps),
		States:   make([]quad.VehicleState, 0, steps),
		Commands: make([]quad.RotorCommands, 0, steps),
		Refs:     make([]quad.Reference, 0, steps),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	state := x0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return h, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		ref := s.trajectory.Eval(t)
		cmd := s.controller.Step(t, ref, state)

		next, err := s.plant.Step(t, cfg.Dt, cmd)
		if err != nil {
			return h, &quad.StepError{Step: i, Time: t, Wrapped: err}
		}
		state = next

		h.Times = append(h.Times, t)
		h.States = append(h.States, state)
		h.Commands = append(h.Commands, cmd)
		h.Refs = append(h.Refs, ref)

		for _, m := range s.metrics {
			m.Observe(t, state, cmd, ref)
		}
		for _, o := range s.observers {
			o.OnStep(t, state, cmd, ref)
		}
	}

	for _, m := range s.metrics {
		h.Metrics[m.Name()] = m.Value()
	}
	return h, nil
}
