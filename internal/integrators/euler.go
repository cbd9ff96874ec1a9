// Package integrators provides fixed-step and adaptive ODE steppers
// over the generic [quad.System] interface. Plants integrate a fresh
// sub-problem each tick, so the steppers are stateless apart from
// scratch buffers.
package integrators

import "github.com/skyward-labs/quadsim/internal/quad"

// Euler is the explicit first-order stepper, mostly useful as a
// baseline for accuracy comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn quad.System, x quad.State, u quad.Control, t, dt float64) quad.State {
	dx := dyn.Derive(x, u, t)
	out := make(quad.State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}
