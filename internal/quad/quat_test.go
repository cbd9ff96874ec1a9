package quad

import (
	"math"
	"testing"
)

func TestQuatIdentityRotate(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	r := QuatIdentity().Rotate(v)
	if r.Sub(v).Norm() > 1e-12 {
		t.Errorf("identity rotation changed vector: %+v", r)
	}
}

func TestQuatYawRotation(t *testing.T) {
	// 90 degrees of yaw maps world x onto world y
	q := QuatFromEuler(0, 0, math.Pi/2)
	r := q.Rotate(Vec3{X: 1})
	want := Vec3{Y: 1}
	if r.Sub(want).Norm() > 1e-12 {
		t.Errorf("expected %+v, got %+v", want, r)
	}
}

func TestQuatPitchTiltsThrust(t *testing.T) {
	// body z under positive pitch leans toward world +x
	q := QuatFromEuler(0, 0.3, 0)
	r := q.Rotate(Vec3{Z: 1})
	if math.Abs(r.X-math.Sin(0.3)) > 1e-12 || math.Abs(r.Z-math.Cos(0.3)) > 1e-12 {
		t.Errorf("pitch rotation wrong: %+v", r)
	}
}

func TestQuatAxisAngleMatchesEuler(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{Y: 1}, 0.7)
	b := QuatFromEuler(0, 0.7, 0)

	d := math.Abs(a.W-b.W) + math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y) + math.Abs(a.Z-b.Z)
	if d > 1e-12 {
		t.Errorf("axis-angle and euler disagree: %+v vs %+v", a, b)
	}
}

func TestQuatConjInverts(t *testing.T) {
	q := QuatFromEuler(0.2, -0.4, 1.1)
	v := Vec3{X: 0.5, Y: -1, Z: 2}

	back := q.Conj().Rotate(q.Rotate(v))
	if back.Sub(v).Norm() > 1e-12 {
		t.Errorf("conjugate did not invert rotation: %+v", back)
	}

	id := q.Mul(q.Conj())
	if math.Abs(id.W-1) > 1e-12 || id.Vec().Norm() > 1e-12 {
		t.Errorf("q*q' should be identity, got %+v", id)
	}
}

func TestQuatMulComposes(t *testing.T) {
	// two quarter turns about z equal one half turn
	quarter := QuatFromEuler(0, 0, math.Pi/2)
	half := QuatFromEuler(0, 0, math.Pi)

	composed := quarter.Mul(quarter)
	v := Vec3{X: 1, Y: 2}
	if composed.Rotate(v).Sub(half.Rotate(v)).Norm() > 1e-12 {
		t.Error("composition of quarter turns does not match half turn")
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{W: 2, X: 0, Y: 0, Z: 0}.Normalize()
	if math.Abs(q.Norm()-1) > 1e-12 {
		t.Errorf("normalized norm %f", q.Norm())
	}

	zero := Quat{}.Normalize()
	if zero != QuatIdentity() {
		t.Errorf("zero quaternion should normalize to identity, got %+v", zero)
	}
}

func TestQuatDerivativeTangent(t *testing.T) {
	// dq/dt must be orthogonal to q, so the norm stays stationary
	q := QuatFromEuler(0.1, 0.2, 0.3)
	dq := q.Derivative(Vec3{X: 1, Y: -2, Z: 0.5})

	dot := q.W*dq.W + q.X*dq.X + q.Y*dq.Y + q.Z*dq.Z
	if math.Abs(dot) > 1e-12 {
		t.Errorf("derivative not tangent to unit sphere: dot %g", dot)
	}
}

func TestQuatEulerUnitNorm(t *testing.T) {
	for _, angles := range [][3]float64{
		{0, 0, 0},
		{0.5, -0.3, 2.0},
		{math.Pi / 4, math.Pi / 4, math.Pi / 4},
	} {
		q := QuatFromEuler(angles[0], angles[1], angles[2])
		if math.Abs(q.Norm()-1) > 1e-12 {
			t.Errorf("QuatFromEuler(%v) norm %f", angles, q.Norm())
		}
	}
}
