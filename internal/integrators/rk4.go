package integrators

import "github.com/skyward-labs/quadsim/internal/quad"

// RK4 is the classic fourth-order Runge-Kutta stepper. Scratch buffers
// are reused across steps to avoid per-tick allocation in long runs.
type RK4 struct {
	k1, k2, k3, k4 quad.State
	scratch        quad.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(quad.State, n)
		r.k2 = make(quad.State, n)
		r.k3 = make(quad.State, n)
		r.k4 = make(quad.State, n)
		r.scratch = make(quad.State, n)
	}
}

func (r *RK4) Step(dyn quad.System, x quad.State, u quad.Control, t, dt float64) quad.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, dyn.Derive(x, u, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, dyn.Derive(r.scratch, u, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, dyn.Derive(r.scratch, u, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, dyn.Derive(r.scratch, u, t+dt))

	out := make(quad.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return out
}
