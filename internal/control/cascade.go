package control

import (
	"math"

	"github.com/skyward-labs/quadsim/internal/mix"
	"github.com/skyward-labs/quadsim/internal/quad"
)

// CascadePD is the full tracking law: an outer PD loop on position
// turns the reference into a commanded acceleration, which sets both
// the collective thrust and, through the hover linearization, a
// desired tilt. An inner PD loop on the quaternion attitude error and
// body rates produces the torque command.
type CascadePD struct {
	par   quad.VehicleParams
	gains Params
	mixer *mix.Mixer

	saturated int
}

func NewCascadePD(par quad.VehicleParams, gains Params) (*CascadePD, error) {
	if err := gains.Validate(); err != nil {
		return nil, err
	}
	m, err := mix.New(par)
	if err != nil {
		return nil, err
	}
	return &CascadePD{par: par, gains: gains, mixer: m}, nil
}

func (c *CascadePD) Step(t float64, ref quad.Reference, actual quad.VehicleState) quad.RotorCommands {
	ep := ref.Pos.Sub(actual.Pos)
	ev := ref.Vel.Sub(actual.Vel)
	acmd := c.gains.Kp.MulElem(ep).Add(c.gains.Kd.MulElem(ev)).Add(ref.Acc)

	u1 := c.par.Mass * (c.par.Gravity + acmd.Z)

	// Small-angle inversion: the lateral acceleration a quadrotor can
	// produce near hover is g*(tilt), so the commanded tilt follows
	// from the commanded lateral acceleration, resolved through yaw.
	sy, cy := math.Sin(ref.Yaw), math.Cos(ref.Yaw)
	g := c.par.Gravity
	rollDes := (acmd.X*sy - acmd.Y*cy) / g
	pitchDes := (acmd.X*cy + acmd.Y*sy) / g
	rollDes = clampTilt(rollDes)
	pitchDes = clampTilt(pitchDes)
	qDes := quad.QuatFromEuler(rollDes, pitchDes, ref.Yaw)

	// Quaternion attitude error in the body frame; the sign flip keeps
	// the correction on the short way around.
	qErr := actual.Att.Conj().Mul(qDes)
	if qErr.W < 0 {
		qErr = quad.Quat{W: -qErr.W, X: -qErr.X, Y: -qErr.Y, Z: -qErr.Z}
	}
	eAtt := qErr.Vec().Scale(2)

	// Acceleration-level gains scaled through the inertia estimate.
	alpha := c.gains.AttKp.MulElem(eAtt).Sub(c.gains.AttKd.MulElem(actual.Omega))
	u2 := c.par.Inertia.MulVec(alpha)

	forces := c.mixer.Inverse(u1, u2)
	cmd, n := c.mixer.Rates(forces, c.gains.RateMin, c.gains.RateMax)
	c.saturated += n
	return cmd
}

func (c *CascadePD) SaturationCount() int {
	return c.saturated
}

// maxTilt bounds the desired tilt so an aggressive lateral command
// cannot invert the small-angle assumption it came from.
const maxTilt = math.Pi / 4

func clampTilt(a float64) float64 {
	if a > maxTilt {
		return maxTilt
	}
	if a < -maxTilt {
		return -maxTilt
	}
	return a
}
