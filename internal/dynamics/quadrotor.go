package dynamics

import (
	"fmt"

	"github.com/skyward-labs/quadsim/internal/mix"
	"github.com/skyward-labs/quadsim/internal/quad"
)

// Quadrotor is the full 3-D rigid-body plant. It is the sole owner and
// mutator of its VehicleState; each Step replaces the state with the
// integrated result and returns it.
type Quadrotor struct {
	par   quad.VehicleParams
	mixer *mix.Mixer
	integ quad.Integrator
	state quad.VehicleState
}

// NewQuadrotor builds a plant from validated parameters with the given
// initial condition. The initial attitude is normalized so a hand-built
// quaternion cannot seed norm drift.
func NewQuadrotor(par quad.VehicleParams, integ quad.Integrator, initial quad.VehicleState) (*Quadrotor, error) {
	m, err := mix.New(par)
	if err != nil {
		return nil, err
	}
	initial.Att = initial.Att.Normalize()
	return &Quadrotor{par: par, mixer: m, integ: integ, state: initial}, nil
}

func (q *Quadrotor) StateDim() int   { return quad.StateDim }
func (q *Quadrotor) ControlDim() int { return 4 }

// Derive implements the continuous equations of motion:
//
//	dp/dt = v
//	dv/dt = g_world + R(q)*(0,0,u1)/m
//	dq/dt = q*(0,omega)/2
//	dw/dt = I^-1 * (u2 - omega x I*omega)
//
// u holds the four rotor rates, mixed into (u1, u2) on every call.
func (q *Quadrotor) Derive(x quad.State, u quad.Control, t float64) quad.State {
	s := quad.StateFromVector(x)

	var cmd quad.RotorCommands
	copy(cmd[:], u)
	u1, u2 := q.mixer.Forward(cmd)

	thrust := s.Att.Rotate(quad.Vec3{Z: u1})
	acc := quad.Vec3{Z: -q.par.Gravity}.Add(thrust.Scale(1 / q.par.Mass))

	qdot := s.Att.Derivative(s.Omega)

	iw := q.par.Inertia.MulVec(s.Omega)
	wdot := q.par.InertiaInv.MulVec(u2.Sub(s.Omega.Cross(iw)))

	return quad.State{
		s.Vel.X, s.Vel.Y, s.Vel.Z,
		acc.X, acc.Y, acc.Z,
		qdot.W, qdot.X, qdot.Y, qdot.Z,
		wdot.X, wdot.Y, wdot.Z,
	}
}

// Step advances the state over [t, t+dt] with the commands held
// constant. The attitude quaternion is renormalized after integration;
// the integrator treats it as four independent scalars, so each step
// leaves a small norm drift that would otherwise accumulate. A NaN or
// Inf in the result aborts the step, leaving the previous state intact.
func (q *Quadrotor) Step(t, dt float64, cmd quad.RotorCommands) (quad.VehicleState, error) {
	if !cmd.IsValid() {
		return quad.VehicleState{}, fmt.Errorf("%w: %v", quad.ErrBadCommand, cmd)
	}
	next := q.integ.Step(q, q.state.Vector(), cmd.Control(), t, dt)
	if !next.IsValid() {
		return quad.VehicleState{}, quad.ErrDiverged
	}
	s := quad.StateFromVector(next)
	s.Att = s.Att.Normalize()
	q.state = s
	return s, nil
}

// Energy is the total mechanical energy: translational and rotational
// kinetic plus gravitational potential.
func (q *Quadrotor) Energy(s quad.VehicleState) float64 {
	ke := 0.5 * q.par.Mass * s.Vel.Dot(s.Vel)
	rot := 0.5 * s.Omega.Dot(q.par.Inertia.MulVec(s.Omega))
	pe := q.par.Mass * q.par.Gravity * s.Pos.Z
	return ke + rot + pe
}
