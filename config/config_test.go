package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meshasset.yaml")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.Validate(""), test.ShouldBeNil)
	test.That(t, cfg.GripperWidth, test.ShouldEqual, 0.08)
	test.That(t, cfg.DensityCeiling, test.ShouldEqual, 2450.)
	test.That(t, cfg.StablePoseSamples, test.ShouldEqual, 10)
	test.That(t, cfg.PoseTranslationScale, test.ShouldEqual, 0.001)
	test.That(t, cfg.Workers, test.ShouldEqual, 1)
	test.That(t, cfg.TargetExtent(), test.ShouldAlmostEqual, 0.08576)
	test.That(t, cfg.UnitWarning(), test.ShouldNotBeEmpty)

	cfg.PoseTranslationScale = 1
	test.That(t, cfg.UnitWarning(), test.ShouldBeEmpty)
}

func TestLoad(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, err := Load("")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg, test.ShouldResemble, Default())
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "gripper_width: 0.1\nstable_pose_samples: 25\nseed: 42\nrelative_mesh_path: true\n"))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.GripperWidth, test.ShouldEqual, 0.1)
		test.That(t, cfg.StablePoseSamples, test.ShouldEqual, 25)
		test.That(t, cfg.Seed, test.ShouldEqual, uint64(42))
		test.That(t, cfg.RelativeMeshPath, test.ShouldBeTrue)
		// untouched fields keep their defaults
		test.That(t, cfg.GripperFraction, test.ShouldEqual, 0.8)
		test.That(t, cfg.TargetMass, test.ShouldEqual, 0.05)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg, test.ShouldResemble, Default())
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "gripper_widht: 0.1\n"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "gripper_widht")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load(writeConfig(t, "density_ceiling: -3\n"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "density_ceiling")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"zero width":       func(c *Config) { c.GripperWidth = 0 },
		"negative margin":  func(c *Config) { c.ScaleMargin = -1 },
		"zero mass":        func(c *Config) { c.TargetMass = 0 },
		"negative sigma":   func(c *Config) { c.StablePoseSigma = -0.1 },
		"no samples":       func(c *Config) { c.StablePoseSamples = 0 },
		"no attempts":      func(c *Config) { c.MaxSampleAttempts = 0 },
		"no workers":       func(c *Config) { c.Workers = 0 },
		"zero pose factor": func(c *Config) { c.PoseTranslationScale = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			test.That(t, cfg.Validate("cfg"), test.ShouldNotBeNil)
		})
	}

	cfg := Default()
	cfg.StablePoseSigma = 0
	test.That(t, cfg.Validate("cfg"), test.ShouldBeNil)
}

func TestSaveTo(t *testing.T) {
	cfg := Default()
	cfg.Seed = 7
	cfg.Workers = 4
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	test.That(t, cfg.SaveTo(path), test.ShouldBeNil)

	loaded, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded, test.ShouldResemble, cfg)
}
