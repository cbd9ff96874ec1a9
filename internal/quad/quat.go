package quad

import "math"

// Quat is a quaternion with scalar part W. Vehicle attitude quaternions
// rotate body-frame vectors into the world frame and are kept unit-norm.
type Quat struct {
	W, X, Y, Z float64
}

// QuatIdentity is the level, north-aligned attitude.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromEuler builds a quaternion from roll (x), pitch (y), yaw (z)
// using the aerospace Z-Y-X rotation order.
func QuatFromEuler(roll, pitch, yaw float64) Quat {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)
	return Quat{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// QuatFromAxisAngle builds a rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	n := axis.Norm()
	if n == 0 {
		return QuatIdentity()
	}
	s := math.Sin(angle/2) / n
	return Quat{
		W: math.Cos(angle / 2),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// Mul returns the Hamilton product q*o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Conj returns the conjugate; for unit quaternions this is the inverse.
func (q Quat) Conj() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize rescales q to unit norm. A zero quaternion normalizes to
// identity rather than NaN.
func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return QuatIdentity()
	}
	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// Rotate applies the rotation to a body-frame vector, returning the
// world-frame vector q*v*q'. Assumes q is unit-norm.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u x v) + 2(u x (u x v)), u = vector part
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Derivative is the unit-quaternion kinematic equation, mapping the
// body angular velocity omega to the quaternion rate dq/dt = q*(0,omega)/2.
func (q Quat) Derivative(omega Vec3) Quat {
	return Quat{
		W: 0.5 * (-q.X*omega.X - q.Y*omega.Y - q.Z*omega.Z),
		X: 0.5 * (q.W*omega.X + q.Y*omega.Z - q.Z*omega.Y),
		Y: 0.5 * (q.W*omega.Y + q.Z*omega.X - q.X*omega.Z),
		Z: 0.5 * (q.W*omega.Z + q.X*omega.Y - q.Y*omega.X),
	}
}

// Vec returns the vector part.
func (q Quat) Vec() Vec3 {
	return Vec3{q.X, q.Y, q.Z}
}

func (q Quat) IsValid() bool {
	return !math.IsNaN(q.W) && !math.IsInf(q.W, 0) && q.Vec().IsValid()
}
