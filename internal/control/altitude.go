package control

import (
	"github.com/skyward-labs/quadsim/internal/mix"
	"github.com/skyward-labs/quadsim/internal/quad"
)

// AltitudePD is the thrust-only feedback law. A PD law on position and
// velocity error produces a commanded acceleration; under the hover
// linearization the vertical channel collapses to a single thrust
// command u1 = m*(g + a_cmd.z) and the torque command stays zero.
type AltitudePD struct {
	par   quad.VehicleParams // controller's model, may differ from plant
	gains Params
	mixer *mix.Mixer

	saturated int
}

func NewAltitudePD(par quad.VehicleParams, gains Params) (*AltitudePD, error) {
	if err := gains.Validate(); err != nil {
		return nil, err
	}
	m, err := mix.New(par)
	if err != nil {
		return nil, err
	}
	return &AltitudePD{par: par, gains: gains, mixer: m}, nil
}

func (c *AltitudePD) Step(t float64, ref quad.Reference, actual quad.VehicleState) quad.RotorCommands {
	ep := ref.Pos.Sub(actual.Pos)
	ev := ref.Vel.Sub(actual.Vel)
	acmd := c.gains.Kp.MulElem(ep).Add(c.gains.Kd.MulElem(ev))

	u1 := c.par.Mass * (c.par.Gravity + acmd.Z)

	forces := c.mixer.Inverse(u1, quad.Vec3{})
	cmd, n := c.mixer.Rates(forces, c.gains.RateMin, c.gains.RateMax)
	c.saturated += n
	return cmd
}

// SaturationCount reports how many rotor-channel commands have been
// clamped to the rate bounds since construction.
func (c *AltitudePD) SaturationCount() int {
	return c.saturated
}
