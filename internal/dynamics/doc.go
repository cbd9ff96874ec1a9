// Package dynamics provides the rigid-body vehicle plants.
//
// Each plant owns its [quad.VehicleState] and implements [quad.Plant]:
// one transition, Step, advancing the state over a fixed interval under
// zero-order-hold rotor commands. The continuous equations of motion
// are exposed through [quad.System] so any integrator can drive them.
//
//   - [Quadrotor]: full 3-D state with quaternion attitude kinematics
//   - [Planar]: reduced x/z slice, pitch torque from the x-arm pair only
//
// Both implement [quad.Hamiltonian] for energy-drift metrics.
package dynamics
