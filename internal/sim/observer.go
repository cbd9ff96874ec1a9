package sim

import (
	"github.com/rs/zerolog"

	"github.com/skyward-labs/quadsim/internal/quad"
)

// TickLogger is an Observer that makes saturation and run progress
// visible without touching the numerics: rotor commands pinned at the
// rate bounds are logged as warnings, and every Nth tick is logged at
// debug level.
type TickLogger struct {
	log     zerolog.Logger
	every   int
	rateMin float64
	rateMax float64
	n       int
}

func NewTickLogger(log zerolog.Logger, every int, rateMin, rateMax float64) *TickLogger {
	if every <= 0 {
		every = 100
	}
	return &TickLogger{log: log, every: every, rateMin: rateMin, rateMax: rateMax}
}

func (l *TickLogger) OnStep(t float64, s quad.VehicleState, cmd quad.RotorCommands, ref quad.Reference) {
	l.n++
	for i, r := range cmd {
		if r >= l.rateMax || (l.rateMin > 0 && r <= l.rateMin) {
			l.log.Warn().
				Float64("t", t).
				Int("rotor", i+1).
				Float64("rate", r).
				Msg("rotor command saturated")
			break
		}
	}
	if l.n%l.every == 0 {
		l.log.Debug().
			Float64("t", t).
			Float64("z", s.Pos.Z).
			Float64("z_ref", ref.Pos.Z).
			Float64("vz", s.Vel.Z).
			Msg("tick")
	}
}
