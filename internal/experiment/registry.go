// Package experiment assembles simulations from configuration: it maps
// the names in a [config.Config] to constructed plants, controllers,
// trajectories, and integrators, and wires them into a simulator.
package experiment

import (
	"fmt"

	"github.com/skyward-labs/quadsim/internal/config"
	"github.com/skyward-labs/quadsim/internal/control"
	"github.com/skyward-labs/quadsim/internal/dynamics"
	"github.com/skyward-labs/quadsim/internal/integrators"
	"github.com/skyward-labs/quadsim/internal/quad"
	"github.com/skyward-labs/quadsim/internal/trajectory"
)

func BuildIntegrator(name string) (quad.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4", "":
		return integrators.NewRK4(), nil
	case "rk45":
		return integrators.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func BuildPlant(cfg *config.Config, par quad.VehicleParams, integ quad.Integrator) (quad.Plant, error) {
	init := cfg.InitVehicleState()
	switch cfg.Model {
	case "quadrotor", "":
		return dynamics.NewQuadrotor(par, integ, init)
	case "planar":
		return dynamics.NewPlanar(par, integ, init)
	default:
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
}

func BuildTrajectory(cfg *config.Config) (quad.Trajectory, error) {
	r := cfg.Reference
	switch cfg.Trajectory {
	case "hover", "":
		return &trajectory.Hover{
			Point: quad.Vec3{X: r.Point[0], Y: r.Point[1], Z: r.Point[2]},
			Yaw:   r.Yaw,
		}, nil
	case "jump":
		return trajectory.NewJump(r.StepTime, r.Low, r.High), nil
	case "circle":
		center := quad.Vec3{X: r.Point[0], Y: r.Point[1]}
		return trajectory.NewCircle(center, r.Radius, r.Omega, r.Altitude), nil
	default:
		return nil, fmt.Errorf("unknown trajectory: %s", cfg.Trajectory)
	}
}

func BuildController(cfg *config.Config, par quad.VehicleParams) (quad.Controller, error) {
	g := cfg.Gains
	gains := control.Params{
		Kp:      quad.Vec3{X: g.Kp[0], Y: g.Kp[1], Z: g.Kp[2]},
		Kd:      quad.Vec3{X: g.Kd[0], Y: g.Kd[1], Z: g.Kd[2]},
		AttKp:   quad.Vec3{X: g.AttKp[0], Y: g.AttKp[1], Z: g.AttKp[2]},
		AttKd:   quad.Vec3{X: g.AttKd[0], Y: g.AttKd[1], Z: g.AttKd[2]},
		RateMin: g.RateMin,
		RateMax: g.RateMax,
	}
	switch cfg.Controller {
	case "cascade", "":
		return control.NewCascadePD(par, gains)
	case "altitude":
		return control.NewAltitudePD(par, gains)
	case "none":
		return control.NewNone(), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
}
