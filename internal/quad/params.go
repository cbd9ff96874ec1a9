package quad

import (
	"fmt"
	"math"
)

// VehicleParams holds the physical constants of the vehicle together
// with the derived rotor coefficients. Construct with NewVehicleParams
// so the derived values are cached and the constants validated once;
// the struct is never mutated afterwards.
type VehicleParams struct {
	Mass          float64 // kg
	Inertia       Mat3    // body frame, kg*m^2
	RotorDiameter float64 // m
	ThrustCoeff   float64 // static thrust coefficient, dimensionless
	TorqueCoeff   float64 // static torque coefficient, dimensionless
	ArmLength     float64 // rotor hub to center of mass, m
	Gravity       float64 // m/s^2
	AirDensity    float64 // kg/m^3

	// Derived: rotor force/torque per squared rotor rate.
	KThrust float64
	KTorque float64

	// Derived: inertia inverse, cached for the rotation equation.
	InertiaInv Mat3
}

// staticCoefficient converts a static rotor coefficient into the
// quadratic rate coefficient k = rho * C * d^4 / (4 pi^2).
func staticCoefficient(rho, c, diameter float64) float64 {
	d2 := diameter * diameter
	return rho * c * d2 * d2 / (4 * math.Pi * math.Pi)
}

// NewVehicleParams validates the constants and computes the derived
// coefficients. Non-positive mass, a singular or asymmetric inertia
// tensor, zero arm length, or zero rotor coefficients are configuration
// errors and rejected here, before any simulation tick runs.
func NewVehicleParams(mass float64, inertia Mat3, rotorDiameter, thrustCoeff, torqueCoeff, armLength, gravity, airDensity float64) (VehicleParams, error) {
	if mass <= 0 {
		return VehicleParams{}, fmt.Errorf("%w: mass %g", ErrBadParams, mass)
	}
	if armLength <= 0 {
		return VehicleParams{}, fmt.Errorf("%w: arm length %g", ErrBadParams, armLength)
	}
	if rotorDiameter <= 0 {
		return VehicleParams{}, fmt.Errorf("%w: rotor diameter %g", ErrBadParams, rotorDiameter)
	}
	if thrustCoeff <= 0 || torqueCoeff <= 0 {
		return VehicleParams{}, fmt.Errorf("%w: rotor coefficients (%g, %g)", ErrBadParams, thrustCoeff, torqueCoeff)
	}
	if airDensity <= 0 {
		return VehicleParams{}, fmt.Errorf("%w: air density %g", ErrBadParams, airDensity)
	}
	if !inertia.IsSymmetric(1e-9) {
		return VehicleParams{}, fmt.Errorf("%w: inertia tensor not symmetric", ErrBadParams)
	}
	inv, ok := inertia.Inverse()
	if !ok {
		return VehicleParams{}, fmt.Errorf("%w: singular inertia tensor", ErrBadParams)
	}

	p := VehicleParams{
		Mass:          mass,
		Inertia:       inertia,
		RotorDiameter: rotorDiameter,
		ThrustCoeff:   thrustCoeff,
		TorqueCoeff:   torqueCoeff,
		ArmLength:     armLength,
		Gravity:       gravity,
		AirDensity:    airDensity,
		InertiaInv:    inv,
	}
	p.KThrust = staticCoefficient(airDensity, thrustCoeff, rotorDiameter)
	p.KTorque = staticCoefficient(airDensity, torqueCoeff, rotorDiameter)
	return p, nil
}

// DefaultVehicleParams describes a 500 g racer-class quadrotor.
func DefaultVehicleParams() VehicleParams {
	p, err := NewVehicleParams(
		0.5,
		Diag(2.3e-3, 2.3e-3, 4.0e-3),
		0.2,   // rotor diameter
		0.1,   // static thrust coefficient
		0.01,  // static torque coefficient
		0.17,  // arm length
		9.81,  // gravity
		1.225, // air density
	)
	if err != nil {
		panic(err) // constants above are known good
	}
	return p
}

// HoverRate is the rotor rate at which four rotors carry the weight.
func (p VehicleParams) HoverRate() float64 {
	return math.Sqrt(p.Mass * p.Gravity / (4 * p.KThrust))
}
