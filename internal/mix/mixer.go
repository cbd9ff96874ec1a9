// Package mix implements the rotor mixing algebra: the constant linear
// map between per-rotor thrust and the generalized actuation vector
// (total thrust, body torque). It is pure and stateless, shared by the
// plants (forward direction) and the controllers (inverse direction).
package mix

import (
	"fmt"
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// Mixer holds the mixing matrix for an X-configuration quadrotor,
// rotor order 1..4:
//
//	u1  = F1 + F2 + F3 + F4
//	u2x = L*(F2 - F4)
//	u2y = L*(F3 - F1)
//	u2z = k*(F1 - F2 + F3 - F4)
//
// with L the arm length and k = KThrust/KTorque. Rotors 1 and 3 sit on
// the +/-x arms and spin opposite to rotors 2 and 4 on the y arms.
type Mixer struct {
	kThrust float64
	arm     float64
	ratio   float64 // KThrust / KTorque
}

// New builds a mixer from validated vehicle parameters. The matrix is
// non-singular whenever the arm length and both coefficients are
// positive, which NewVehicleParams guarantees; the check here guards
// direct construction with a zero-value params struct.
func New(p quad.VehicleParams) (*Mixer, error) {
	if p.ArmLength <= 0 || p.KThrust <= 0 || p.KTorque <= 0 {
		return nil, fmt.Errorf("%w: singular mixing matrix (L=%g, kT=%g, kQ=%g)",
			quad.ErrBadParams, p.ArmLength, p.KThrust, p.KTorque)
	}
	return &Mixer{
		kThrust: p.KThrust,
		arm:     p.ArmLength,
		ratio:   p.KThrust / p.KTorque,
	}, nil
}

// Forces returns the per-rotor thrust for the given rotor rates,
// quadratic in the rate and monotonic for non-negative rates.
func (m *Mixer) Forces(cmd quad.RotorCommands) [4]float64 {
	var f [4]float64
	for i, r := range cmd {
		f[i] = m.kThrust * r * r
	}
	return f
}

// Forward maps rotor rates to the generalized actuation: total body-z
// thrust u1 and the body-frame torque vector u2.
func (m *Mixer) Forward(cmd quad.RotorCommands) (u1 float64, u2 quad.Vec3) {
	f := m.Forces(cmd)
	u1 = f[0] + f[1] + f[2] + f[3]
	u2 = quad.Vec3{
		X: m.arm * (f[1] - f[3]),
		Y: m.arm * (f[2] - f[0]),
		Z: m.ratio * (f[0] - f[1] + f[2] - f[3]),
	}
	return u1, u2
}

// Inverse maps a generalized actuation back to per-rotor forces via
// the closed-form inverse of the mixing matrix. A rotor cannot pull,
// so negative forces are clamped to zero here and never propagate as
// negative rates.
func (m *Mixer) Inverse(u1 float64, u2 quad.Vec3) [4]float64 {
	quarter := u1 / 4
	dx := u2.X / (2 * m.arm)
	dy := u2.Y / (2 * m.arm)
	dz := u2.Z / (4 * m.ratio)
	f := [4]float64{
		quarter - dy + dz,
		quarter + dx - dz,
		quarter + dy + dz,
		quarter - dx - dz,
	}
	for i := range f {
		if f[i] < 0 {
			f[i] = 0
		}
	}
	return f
}

// Rates recovers rotor rates from per-rotor forces and clamps them to
// [min, max]. The returned count is how many rotors saturated; clamping
// is not an error but callers may want to observe it.
func (m *Mixer) Rates(forces [4]float64, min, max float64) (quad.RotorCommands, int) {
	var cmd quad.RotorCommands
	saturated := 0
	for i, f := range forces {
		if f < 0 {
			f = 0
		}
		r := math.Sqrt(f / m.kThrust)
		if r < min {
			r = min
			saturated++
		} else if r > max {
			r = max
			saturated++
		}
		cmd[i] = r
	}
	return cmd, saturated
}
