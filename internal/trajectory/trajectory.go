// Package trajectory provides analytic reference trajectories. Each is
// a pure function of time: evaluating the same instant twice yields
// the same reference, so a run can be replayed or re-evaluated freely.
package trajectory

import (
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// Hover holds a fixed point and yaw.
type Hover struct {
	Point quad.Vec3
	Yaw   float64
}

func NewHover(point quad.Vec3) *Hover {
	return &Hover{Point: point}
}

func (h *Hover) Eval(t float64) quad.Reference {
	return quad.Reference{Time: t, Pos: h.Point, Yaw: h.Yaw}
}

// Jump is an altitude step: Low until StepTime, High afterwards, with
// zero desired velocity on both sides.
type Jump struct {
	StepTime float64
	Low      float64
	High     float64
}

func NewJump(stepTime, low, high float64) *Jump {
	return &Jump{StepTime: stepTime, Low: low, High: high}
}

func (j *Jump) Eval(t float64) quad.Reference {
	alt := j.Low
	if t >= j.StepTime {
		alt = j.High
	}
	return quad.Reference{Time: t, Pos: quad.Vec3{Z: alt}}
}

// Circle is a constant-rate horizontal circle at fixed altitude, with
// velocity and centripetal acceleration consistent with the position.
type Circle struct {
	Center   quad.Vec3
	Radius   float64
	Omega    float64 // angular rate, rad/s
	Altitude float64
}

func NewCircle(center quad.Vec3, radius, omega, altitude float64) *Circle {
	return &Circle{Center: center, Radius: radius, Omega: omega, Altitude: altitude}
}

func (c *Circle) Eval(t float64) quad.Reference {
	a := c.Omega * t
	sin, cos := math.Sin(a), math.Cos(a)
	r, w := c.Radius, c.Omega
	return quad.Reference{
		Time: t,
		Pos:  quad.Vec3{X: c.Center.X + r*cos, Y: c.Center.Y + r*sin, Z: c.Altitude},
		Vel:  quad.Vec3{X: -r * w * sin, Y: r * w * cos},
		Acc:  quad.Vec3{X: -r * w * w * cos, Y: -r * w * w * sin},
		Yaw:  0,
	}
}
