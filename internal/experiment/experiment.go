package experiment

import (
	"context"

	"github.com/skyward-labs/quadsim/internal/config"
	"github.com/skyward-labs/quadsim/internal/metrics"
	"github.com/skyward-labs/quadsim/internal/quad"
	"github.com/skyward-labs/quadsim/internal/sim"
)

// Experiment is a fully assembled simulation run.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	initial   quad.VehicleState
}

// New builds every component named in the config and wires the default
// metric set. Configuration errors surface here, before any tick runs.
func New(cfg *config.Config) (*Experiment, error) {
	par, err := cfg.VehicleParams()
	if err != nil {
		return nil, err
	}
	integ, err := BuildIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	plant, err := BuildPlant(cfg, par, integ)
	if err != nil {
		return nil, err
	}
	traj, err := BuildTrajectory(cfg)
	if err != nil {
		return nil, err
	}
	ctrl, err := BuildController(cfg, par)
	if err != nil {
		return nil, err
	}

	s := sim.New(plant, traj, ctrl)
	s.AddMetric(metrics.NewTrackingError())
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewSaturation(cfg.Gains.RateMin, cfg.Gains.RateMax))
	if h, ok := plant.(quad.Hamiltonian); ok {
		s.AddMetric(metrics.NewEnergyDrift(h))
	}

	return &Experiment{cfg: cfg, simulator: s, initial: cfg.InitVehicleState()}, nil
}

// Simulator exposes the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Run(ctx context.Context) (*quad.History, error) {
	return e.simulator.Run(ctx, e.initial, sim.Config{Dt: e.cfg.Dt, Duration: e.cfg.Duration})
}
