// Package control provides the feedback laws that close the loop from
// a (reference, actual) state pair to rotor commands.
//
// Controllers carry their own copy of the vehicle parameters, distinct
// from the plant's. A deliberate mismatch between the two models the
// usual situation where the controller's mass or inertia estimate is
// off; the laws must remain stable under moderate mismatch.
//
//   - [AltitudePD]: thrust-only vertical-channel law, zero torque
//   - [CascadePD]: full position plus attitude tracking
package control
