package experiment_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skyward-labs/quadsim/internal/config"
	"github.com/skyward-labs/quadsim/internal/experiment"
	"github.com/skyward-labs/quadsim/internal/quad"
)

func run(cfg *config.Config) *quad.History {
	GinkgoHelper()
	exp, err := experiment.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	h, err := exp.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return h
}

var _ = Describe("closed-loop scenarios", func() {
	Describe("hover", func() {
		It("climbs to the reference point and stays there", func() {
			h := run(config.GetPreset("hover"))
			Expect(h.Len()).To(Equal(1000))

			final := h.States[h.Len()-1]
			Expect(math.Abs(final.Pos.Z - 1)).To(BeNumerically("<", 0.01))
			Expect(final.Vel.Norm()).To(BeNumerically("<", 0.01))
		})

		It("keeps the attitude quaternion unit norm throughout", func() {
			h := run(config.GetPreset("hover"))
			for _, s := range h.States {
				Expect(math.Abs(s.Att.Norm() - 1)).To(BeNumerically("<", 1e-9))
			}
		})

		It("never exceeds the rotor rate ceiling", func() {
			cfg := config.GetPreset("hover")
			h := run(cfg)
			for _, cmd := range h.Commands {
				for _, r := range cmd {
					Expect(r).To(BeNumerically("<=", cfg.Gains.RateMax))
					Expect(r).To(BeNumerically(">=", 0))
				}
			}
		})

		It("is deterministic across runs", func() {
			a := run(config.GetPreset("hover"))
			b := run(config.GetPreset("hover"))
			Expect(b.States).To(Equal(a.States))
			Expect(b.Commands).To(Equal(a.Commands))
			Expect(b.Metrics).To(Equal(a.Metrics))
		})
	})

	Describe("altitude jump", func() {
		It("settles within two percent of the step four seconds after it", func() {
			h := run(config.GetPreset("jump"))

			// step at t=1s, run ends at t=5s
			final := h.States[h.Len()-1]
			Expect(math.Abs(final.Pos.Z - 1)).To(BeNumerically("<", 0.02))
		})

		It("holds the low reference before the step", func() {
			h := run(config.GetPreset("jump"))
			for i, s := range h.States {
				if h.Times[i] >= 0.9 {
					break
				}
				Expect(math.Abs(s.Pos.Z)).To(BeNumerically("<", 0.05))
			}
		})
	})

	Describe("circle tracking", func() {
		It("follows the circle with bounded error", func() {
			h := run(config.GetPreset("circle"))
			Expect(h.Metrics["tracking_rms"]).To(BeNumerically("<", 0.5))
		})
	})

	Describe("free fall", func() {
		It("matches the ballistic solution", func() {
			cfg := config.GetPreset("freefall")
			h := run(cfg)

			g := cfg.Vehicle.Gravity
			final := h.States[h.Len()-1]
			t := h.Times[h.Len()-1] + cfg.Dt
			want := 10 - 0.5*g*t*t
			Expect(math.Abs(final.Pos.Z - want)).To(BeNumerically("<", 1e-6))
		})

		It("conserves mechanical energy", func() {
			h := run(config.GetPreset("freefall"))
			Expect(h.Metrics["energy_drift"]).To(BeNumerically("<", 1e-9))
		})
	})

	Describe("planar variant", func() {
		It("tracks an altitude jump on two rotors", func() {
			h := run(config.GetPreset("planar-jump"))
			final := h.States[h.Len()-1]
			Expect(math.Abs(final.Pos.Z - 1)).To(BeNumerically("<", 0.02))
		})
	})

	Describe("failure paths", func() {
		It("rejects an unknown integrator", func() {
			cfg := config.DefaultConfig()
			cfg.Integrator = "leapfrog"
			_, err := experiment.New(cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid vehicle parameters before running", func() {
			cfg := config.DefaultConfig()
			cfg.Vehicle.Mass = 0
			_, err := experiment.New(cfg)
			Expect(err).To(MatchError(quad.ErrBadParams))
		})
	})
})
