package control

import (
	"errors"
	"math"
	"testing"

	"github.com/skyward-labs/quadsim/internal/quad"
)

func hoverState(z float64) quad.VehicleState {
	return quad.VehicleState{
		Pos: quad.Vec3{Z: z},
		Att: quad.QuatIdentity(),
	}
}

func hoverRef(z float64) quad.Reference {
	return quad.Reference{Pos: quad.Vec3{Z: z}}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		min     float64
		max     float64
		wantErr bool
	}{
		{"valid", 0, 1500, false},
		{"negative floor", -1, 1500, true},
		{"inverted bounds", 1000, 500, true},
		{"equal bounds", 500, 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.RateMin, p.RateMax = tt.min, tt.max
			err := p.Validate()
			if tt.wantErr && !errors.Is(err, quad.ErrBadParams) {
				t.Errorf("expected ErrBadParams, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAltitudePDHoverCommand(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewAltitudePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	// zero error: the command is exactly the hover rate on all rotors
	cmd := c.Step(0, hoverRef(1), hoverState(1))

	want := par.HoverRate()
	for i, r := range cmd {
		if math.Abs(r-want) > 1e-9 {
			t.Errorf("rotor %d: got %g, want hover rate %g", i+1, r, want)
		}
	}
}

func TestAltitudePDRespondsToError(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewAltitudePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	hover := par.HoverRate()

	// below the reference: push harder than hover
	below := c.Step(0, hoverRef(2), hoverState(1))
	if below[0] <= hover {
		t.Errorf("below reference should exceed hover rate: %g", below[0])
	}

	// above the reference: back off
	above := c.Step(0, hoverRef(1), hoverState(2))
	if above[0] >= hover {
		t.Errorf("above reference should undercut hover rate: %g", above[0])
	}
}

func TestAltitudePDZeroTorque(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewAltitudePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	cmd := c.Step(0, hoverRef(3), hoverState(1))

	// thrust-only control commands all rotors identically
	for i := 1; i < 4; i++ {
		if math.Abs(cmd[i]-cmd[0]) > 1e-9 {
			t.Errorf("rotor %d differs from rotor 1: %g vs %g", i+1, cmd[i], cmd[0])
		}
	}
}

func TestAltitudePDSaturation(t *testing.T) {
	par := quad.DefaultVehicleParams()
	gains := DefaultParams()
	gains.RateMax = 600
	c, err := NewAltitudePD(par, gains)
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	// enormous error pins every rotor at the ceiling
	cmd := c.Step(0, hoverRef(1000), hoverState(0))
	for i, r := range cmd {
		if r != 600 {
			t.Errorf("rotor %d: expected ceiling 600, got %g", i+1, r)
		}
	}
	if c.SaturationCount() == 0 {
		t.Error("saturation not counted")
	}
}

func TestCascadePDHoverCommand(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewCascadePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	cmd := c.Step(0, hoverRef(1), hoverState(1))

	want := par.HoverRate()
	for i, r := range cmd {
		if math.Abs(r-want) > 1e-9 {
			t.Errorf("rotor %d: got %g, want hover rate %g", i+1, r, want)
		}
	}
}

func TestCascadePDLateralErrorTiltsCommand(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewCascadePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	// reference ahead on +x at zero yaw: the vehicle pitches forward,
	// which takes the rear rotor 3 outrunning the front rotor 1
	ref := quad.Reference{Pos: quad.Vec3{X: 1, Z: 1}}
	cmd := c.Step(0, ref, hoverState(1))

	if cmd[2] <= cmd[0] {
		t.Errorf("expected rotor 3 above rotor 1 for a nose-down moment: %g vs %g", cmd[2], cmd[0])
	}
}

func TestCascadePDDampsBodyRates(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewCascadePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	// at the reference but spinning about x: damping torque opposes it,
	// so rotor 4 (on -y) must outrun rotor 2
	state := hoverState(1)
	state.Omega = quad.Vec3{X: 2}
	cmd := c.Step(0, hoverRef(1), state)

	if cmd[3] <= cmd[1] {
		t.Errorf("expected rotor 4 above rotor 2 to damp roll rate: %g vs %g", cmd[3], cmd[1])
	}
}

func TestCascadePDTiltClamp(t *testing.T) {
	par := quad.DefaultVehicleParams()
	c, err := NewCascadePD(par, DefaultParams())
	if err != nil {
		t.Fatalf("controller construction failed: %v", err)
	}

	// absurd lateral error: commands must stay finite and non-negative
	ref := quad.Reference{Pos: quad.Vec3{X: 1e6, Z: 1}}
	cmd := c.Step(0, ref, hoverState(1))

	if !cmd.IsValid() {
		t.Errorf("command invalid under clamped tilt: %+v", cmd)
	}
}

func TestNoneCommandsZero(t *testing.T) {
	c := NewNone()
	cmd := c.Step(3, hoverRef(10), hoverState(0))
	if cmd != (quad.RotorCommands{}) {
		t.Errorf("expected zero commands, got %+v", cmd)
	}
}
