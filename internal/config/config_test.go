package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/skyward-labs/quadsim/internal/quad"
)

func TestDefaultConfigBuildsParams(t *testing.T) {
	cfg := DefaultConfig()

	par, err := cfg.VehicleParams()
	if err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	if par.Mass != 0.5 {
		t.Errorf("unexpected default mass: %g", par.Mass)
	}
	if par.KThrust <= 0 {
		t.Errorf("derived thrust coefficient not positive: %g", par.KThrust)
	}
}

func TestBadVehicleConfigRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vehicle.Mass = -1

	if _, err := cfg.VehicleParams(); err == nil {
		t.Error("negative mass accepted")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = "planar"
	cfg.Dt = 0.005
	cfg.Gains.Kp = [3]float64{1, 2, 3}
	cfg.InitState.Pos = [3]float64{0, 0, 7}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Model != "planar" || loaded.Dt != 0.005 {
		t.Errorf("run settings lost: %+v", loaded)
	}
	if loaded.Gains.Kp != [3]float64{1, 2, 3} {
		t.Errorf("gains lost: %+v", loaded.Gains.Kp)
	}
	if loaded.InitState.Pos != [3]float64{0, 0, 7} {
		t.Errorf("initial state lost: %+v", loaded.InitState.Pos)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("listed preset not retrievable")
			}
			if _, err := cfg.VehicleParams(); err != nil {
				t.Errorf("preset has invalid vehicle params: %v", err)
			}
			if cfg.Dt <= 0 || cfg.Duration <= 0 {
				t.Errorf("preset has invalid run settings: dt=%g duration=%g", cfg.Dt, cfg.Duration)
			}
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	if GetPreset("does-not-exist") != nil {
		t.Error("unknown preset returned a config")
	}
}

func TestInitVehicleStateYaw(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState.Yaw = math.Pi / 2

	s := cfg.InitVehicleState()
	if math.Abs(s.Att.Norm()-1) > 1e-12 {
		t.Errorf("initial attitude not unit norm: %g", s.Att.Norm())
	}

	// yaw of pi/2 points body x along world y
	bodyX := s.Att.Rotate(quad.Vec3{X: 1})
	if math.Abs(bodyX.Y-1) > 1e-12 {
		t.Errorf("yawed attitude wrong: body x maps to %+v", bodyX)
	}
}
