package dynamics

import (
	"fmt"
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// Planar is the reduced 2-D plant: translation in the x/z plane and
// rotation about the body y axis only. All four rotors lift, but only
// the x-arm pair (rotors 1 and 3) contributes pitch torque; the y-arm
// pair's roll torque has no in-plane component. The internal ODE state
// is [x, z, theta, vx, vz, omega] with theta the pitch angle.
type Planar struct {
	par   quad.VehicleParams
	integ quad.Integrator
	x     quad.State
}

func NewPlanar(par quad.VehicleParams, integ quad.Integrator, initial quad.VehicleState) (*Planar, error) {
	if par.KThrust <= 0 {
		return nil, fmt.Errorf("%w: planar plant needs positive thrust coefficient", quad.ErrBadParams)
	}
	pitch := 2 * math.Atan2(initial.Att.Y, initial.Att.W)
	return &Planar{
		par:   par,
		integ: integ,
		x: quad.State{
			initial.Pos.X, initial.Pos.Z, pitch,
			initial.Vel.X, initial.Vel.Z, initial.Omega.Y,
		},
	}, nil
}

func (p *Planar) StateDim() int   { return 6 }
func (p *Planar) ControlDim() int { return 4 }

// Derive is the planar slice of the rigid-body equations. Thrust acts
// along the rotated body z axis: world accel (u1*sin(theta)/m,
// u1*cos(theta)/m - g); pitch torque is L*(F3 - F1).
func (p *Planar) Derive(x quad.State, u quad.Control, t float64) quad.State {
	theta, vx, vz, omega := x[2], x[3], x[4], x[5]

	var f [4]float64
	for i := range f {
		f[i] = p.par.KThrust * u[i] * u[i]
	}
	u1 := f[0] + f[1] + f[2] + f[3]
	torque := p.par.ArmLength * (f[2] - f[0])

	sin, cos := math.Sin(theta), math.Cos(theta)
	ax := u1 * sin / p.par.Mass
	az := u1*cos/p.par.Mass - p.par.Gravity
	alpha := torque / p.par.Inertia[1][1]

	return quad.State{vx, vz, omega, ax, az, alpha}
}

func (p *Planar) Step(t, dt float64, cmd quad.RotorCommands) (quad.VehicleState, error) {
	if !cmd.IsValid() {
		return quad.VehicleState{}, fmt.Errorf("%w: %v", quad.ErrBadCommand, cmd)
	}
	next := p.integ.Step(p, p.x, cmd.Control(), t, dt)
	if !next.IsValid() {
		return quad.VehicleState{}, quad.ErrDiverged
	}
	p.x = next
	return p.vehicleState(), nil
}

// vehicleState lifts the planar state into the shared representation,
// encoding pitch as a rotation about the y axis.
func (p *Planar) vehicleState() quad.VehicleState {
	return quad.VehicleState{
		Pos:   quad.Vec3{X: p.x[0], Z: p.x[1]},
		Vel:   quad.Vec3{X: p.x[3], Z: p.x[4]},
		Att:   quad.QuatFromAxisAngle(quad.Vec3{Y: 1}, p.x[2]),
		Omega: quad.Vec3{Y: p.x[5]},
	}
}

func (p *Planar) Energy(s quad.VehicleState) float64 {
	ke := 0.5 * p.par.Mass * (s.Vel.X*s.Vel.X + s.Vel.Z*s.Vel.Z)
	rot := 0.5 * p.par.Inertia[1][1] * s.Omega.Y * s.Omega.Y
	pe := p.par.Mass * p.par.Gravity * s.Pos.Z
	return ke + rot + pe
}
