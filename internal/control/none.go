package control

import "github.com/skyward-labs/quadsim/internal/quad"

// None commands zero rotor rates regardless of the reference, leaving
// the vehicle unpowered. Useful for free-fall and coast experiments.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (*None) Step(t float64, ref quad.Reference, actual quad.VehicleState) quad.RotorCommands {
	return quad.RotorCommands{}
}
