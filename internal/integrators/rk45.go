package integrators

import (
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// Dormand-Prince 5(4) tableau.
var (
	dpA = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}

	dpB = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}

	// 5th order solution weights (k7 unused) and the 4th/5th order
	// difference used for the error estimate.
	dpC = [7]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0}
	dpE = [7]float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	}
)

// RK45 is the Dormand-Prince adaptive stepper. Step takes the
// fifth-order solution at the requested dt; StepAdaptive also returns
// a suggested next step size from the embedded error estimate.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(dyn quad.System, x quad.State, u quad.Control, t, dt float64) quad.State {
	out, _, _ := r.StepAdaptive(dyn, x, u, t, dt, 1e-6)
	return out
}

func (r *RK45) StepAdaptive(dyn quad.System, x quad.State, u quad.Control, t, dt, tol float64) (quad.State, float64, error) {
	n := len(x)

	var k [7]quad.State
	k[0] = dyn.Derive(x, u, t)
	for s := 1; s < 7; s++ {
		stage := make(quad.State, n)
		for i := 0; i < n; i++ {
			acc := x[i]
			for j := 0; j < s; j++ {
				acc += dt * dpB[s][j] * k[j][i]
			}
			stage[i] = acc
		}
		k[s] = dyn.Derive(stage, u, t+dpA[s]*dt)
	}

	out := make(quad.State, n)
	for i := 0; i < n; i++ {
		acc := x[i]
		for s := 0; s < 7; s++ {
			acc += dt * dpC[s] * k[s][i]
		}
		out[i] = acc
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for s := 0; s < 7; s++ {
			est += dpE[s] * k[s][i]
		}
		est *= dt
		scale := math.Abs(x[i]) + math.Abs(dt*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(est)/scale)
	}

	ratio := errMax / tol
	var next float64
	switch {
	case ratio > 1:
		next = dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		next = dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		next = dt * r.maxScale
	}
	return out, next, nil
}
