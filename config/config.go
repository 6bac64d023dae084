// Package config holds the tunable constants of a mesh asset conversion.
package config

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Config holds every constant of the conversion pipeline. Fields missing from a loaded file keep
// their defaults.
type Config struct {
	// GripperWidth is the width of the gripper that will grasp the object, in meters.
	GripperWidth float64 `yaml:"gripper_width"`
	// GripperFraction is the fraction of the gripper width the object should span.
	GripperFraction float64 `yaml:"gripper_fraction"`
	// ScaleMargin is an extra multiplier applied to the rescale target.
	ScaleMargin float64 `yaml:"scale_margin"`

	// TargetMass is the mass given to an object whose density would stay under DensityCeiling.
	TargetMass float64 `yaml:"target_mass"`
	// DensityCeiling is the largest density assigned to an object, in kg/m^3.
	DensityCeiling float64 `yaml:"density_ceiling"`

	StablePoseSamples int     `yaml:"stable_pose_samples"`
	StablePoseSigma   float64 `yaml:"stable_pose_sigma"`
	// PoseTranslationScale multiplies the translation of every stable pose after sampling.
	PoseTranslationScale float64 `yaml:"pose_translation_scale"`
	// MaxSampleAttempts bounds the draws for one center of mass sample.
	MaxSampleAttempts int `yaml:"max_sample_attempts"`
	// Seed seeds the stable pose sampler. Zero picks a seed from the clock.
	Seed uint64 `yaml:"seed"`

	// RelativeMeshPath writes the bare mesh filename into the URDF instead of the path joined
	// with the target directory.
	RelativeMeshPath bool `yaml:"relative_mesh_path"`
	// Workers is the number of meshes converted at once.
	Workers int `yaml:"workers"`
	// PlotPoses additionally renders the stable pose probabilities as stable_prob.png.
	PlotPoses bool `yaml:"plot_poses"`
}

// Default returns the constants of the reference pipeline.
func Default() *Config {
	return &Config{
		GripperWidth:         0.08,
		GripperFraction:      0.8,
		ScaleMargin:          1.34,
		TargetMass:           0.050,
		DensityCeiling:       2450,
		StablePoseSamples:    10,
		StablePoseSigma:      0.1,
		PoseTranslationScale: 0.001,
		MaxSampleAttempts:    1_000_000,
		Workers:              1,
	}
}

// TargetExtent returns the length the longest side of the oriented bounding box is scaled to.
func (c *Config) TargetExtent() float64 {
	return c.GripperWidth * c.GripperFraction * c.ScaleMargin
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	positive := []struct {
		field string
		value float64
	}{
		{"gripper_width", c.GripperWidth},
		{"gripper_fraction", c.GripperFraction},
		{"scale_margin", c.ScaleMargin},
		{"target_mass", c.TargetMass},
		{"density_ceiling", c.DensityCeiling},
		{"pose_translation_scale", c.PoseTranslationScale},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return utils.NewConfigValidationError(path, errors.Errorf("%s must be positive, got %v", p.field, p.value))
		}
	}
	if c.StablePoseSigma < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("stable_pose_sigma must not be negative, got %v", c.StablePoseSigma))
	}
	if c.StablePoseSamples <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "stable_pose_samples")
	}
	if c.MaxSampleAttempts <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "max_sample_attempts")
	}
	if c.Workers <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	return nil
}

// UnitWarning returns a message when pose translations are rescaled, since the mesh itself is
// already in meters and the rescaled translations are then in a different unit than the mesh.
func (c *Config) UnitWarning() string {
	if c.PoseTranslationScale == 1 {
		return ""
	}
	return "stable pose translations are multiplied by pose_translation_scale and no longer share the mesh's units"
}
