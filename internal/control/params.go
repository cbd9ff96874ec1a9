package control

import (
	"fmt"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// Params holds the controller gains and actuation bounds. Gains are
// the diagonals of the (diagonal) gain matrices; an axis with zero
// gain is simply not under active control. Params are immutable per
// controller instance: retuning means constructing a new controller.
type Params struct {
	Kp quad.Vec3 // position error gain
	Kd quad.Vec3 // velocity error gain

	AttKp quad.Vec3 // attitude error gain (CascadePD only)
	AttKd quad.Vec3 // body-rate damping gain (CascadePD only)

	RateMin float64 // rotor rate saturation floor, rad/s
	RateMax float64 // rotor rate saturation ceiling, rad/s
}

// Validate rejects inverted or negative saturation bounds.
func (p Params) Validate() error {
	if p.RateMin < 0 || p.RateMax <= p.RateMin {
		return fmt.Errorf("%w: rotor rate bounds [%g, %g]", quad.ErrBadParams, p.RateMin, p.RateMax)
	}
	return nil
}

// DefaultParams are well-damped gains for the default vehicle: the
// vertical channel has natural frequency ~2.8 rad/s at damping 0.7.
func DefaultParams() Params {
	return Params{
		Kp:      quad.Vec3{X: 4, Y: 4, Z: 8},
		Kd:      quad.Vec3{X: 3, Y: 3, Z: 4},
		AttKp:   quad.Vec3{X: 40, Y: 40, Z: 10},
		AttKd:   quad.Vec3{X: 8, Y: 8, Z: 4},
		RateMin: 0,
		RateMax: 1500,
	}
}
