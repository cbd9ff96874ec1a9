package quad

import "math"

// State is a flat ODE state vector, the currency of the generic
// integrators. Vehicle plants pack and unpack it via VehicleState.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Control is a flat actuation vector as seen by the integrators; for
// quadrotor plants it holds the four rotor rates.
type Control []float64

// RotorCommands holds the four commanded rotor rates in rad/s, ordered
// 1..4 around the X configuration. Rates are non-negative.
type RotorCommands [4]float64

// Control returns the commands as a flat actuation vector.
func (c RotorCommands) Control() Control {
	return Control{c[0], c[1], c[2], c[3]}
}

func (c RotorCommands) IsValid() bool {
	for _, r := range c {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return false
		}
	}
	return true
}

// VehicleState is the full rigid-body state of the vehicle. Position
// and velocity are world frame, Att rotates body to world, Omega is
// the body-frame angular velocity.
type VehicleState struct {
	Pos   Vec3
	Vel   Vec3
	Att   Quat
	Omega Vec3
}

// StateDim is the length of the flattened vehicle state vector.
const StateDim = 13

// Vector flattens the state to [pos, vel, quat, omega].
func (v VehicleState) Vector() State {
	return State{
		v.Pos.X, v.Pos.Y, v.Pos.Z,
		v.Vel.X, v.Vel.Y, v.Vel.Z,
		v.Att.W, v.Att.X, v.Att.Y, v.Att.Z,
		v.Omega.X, v.Omega.Y, v.Omega.Z,
	}
}

// StateFromVector is the inverse of Vector. The attitude is taken as
// stored; callers renormalize after integration.
func StateFromVector(x State) VehicleState {
	return VehicleState{
		Pos:   Vec3{x[0], x[1], x[2]},
		Vel:   Vec3{x[3], x[4], x[5]},
		Att:   Quat{W: x[6], X: x[7], Y: x[8], Z: x[9]},
		Omega: Vec3{x[10], x[11], x[12]},
	}
}

func (v VehicleState) IsValid() bool {
	return v.Pos.IsValid() && v.Vel.IsValid() && v.Att.IsValid() && v.Omega.IsValid()
}

// Reference is the desired state a trajectory produces for one instant.
type Reference struct {
	Time float64
	Pos  Vec3
	Vel  Vec3
	Acc  Vec3
	Yaw  float64
}

// System is a continuous-time dynamical system: dx/dt = Derive(x, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a System one step of size dt.
type Integrator interface {
	Step(dyn System, x State, u Control, t, dt float64) State
}

// AdaptiveIntegrator additionally estimates local error and suggests
// the next step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

// Plant owns the vehicle state and advances it one fixed step under
// zero-order-hold rotor commands. The returned state is the only way
// callers observe it.
type Plant interface {
	Step(t, dt float64, cmd RotorCommands) (VehicleState, error)
}

// Trajectory maps time to a desired reference state. Eval must be a
// pure function of t: evaluating the same instant twice yields the
// same reference.
type Trajectory interface {
	Eval(t float64) Reference
}

// Controller closes the loop: it maps the (reference, actual) pair to
// rotor commands. Implementations hold their own immutable gain and
// vehicle-model parameters.
type Controller interface {
	Step(t float64, ref Reference, actual VehicleState) RotorCommands
}

// Hamiltonian is implemented by plants that can report total mechanical
// energy, enabling drift metrics.
type Hamiltonian interface {
	Energy(s VehicleState) float64
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(t float64, s VehicleState, cmd RotorCommands, ref Reference)
	Value() float64
	Reset()
}

// Observer is notified after every simulation tick.
type Observer interface {
	OnStep(t float64, s VehicleState, cmd RotorCommands, ref Reference)
}

// History is the recorded outcome of a run: one entry per tick,
// insertion ordered. States[i] is the vehicle state after tick i,
// Commands[i] and Refs[i] the inputs applied over that tick, and
// Times[i] the tick start time.
type History struct {
	Times    []float64
	States   []VehicleState
	Commands []RotorCommands
	Refs     []Reference
	Metrics  map[string]float64
}

// Len returns the number of recorded ticks.
func (h *History) Len() int {
	return len(h.Times)
}
