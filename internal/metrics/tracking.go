// Package metrics provides per-run scalar metrics implementing
// [quad.Metric]. Metrics observe each tick and reduce to one value at
// the end of a run.
package metrics

import (
	"math"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// TrackingError is the RMS position error against the reference.
type TrackingError struct {
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{}
}

func (m *TrackingError) Name() string { return "tracking_rms" }

func (m *TrackingError) Observe(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	e := ref.Pos.Sub(s.Pos)
	m.sumSq += e.Dot(e)
	m.samples++
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *TrackingError) Reset() {
	m.sumSq = 0
	m.samples = 0
}
