// Package quad defines the data model and capability interfaces shared
// by every component of the quadrotor simulator:
//
//   - [VehicleState]: position, velocity, attitude quaternion, body rates
//   - [RotorCommands]: the four commanded rotor rates
//   - [Reference]: the desired state produced by a trajectory
//   - [VehicleParams]: physical constants with derived rotor coefficients
//
// Components are polymorphic strategies with a single entry point:
// a [Plant] advances the vehicle one step, a [Trajectory] maps time to
// a reference, a [Controller] maps a (reference, actual) pair to rotor
// commands, and a [System] exposes the continuous equations of motion
// to a generic [Integrator].
package quad
