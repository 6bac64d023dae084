package asset

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/meshasset/config"
	"go.viam.com/meshasset/logging"
	"go.viam.com/meshasset/spatialmath"
)

// NormalizeResult records what Normalize did to a mesh.
type NormalizeResult struct {
	// Scale is the uniform factor applied to every vertex.
	Scale float64
	// OriginalExtents are the oriented bounding box side lengths before scaling.
	OriginalExtents r3.Vector
	// Inverted is set when the face winding was flipped to make the volume positive.
	Inverted bool
	// Volume is the enclosed volume after scaling.
	Volume float64
	// Density is the density assigned to the mesh.
	Density float64
	// Mass is Density times Volume.
	Mass float64
}

// Normalize rescales m so the longest side of its oriented bounding box equals the configured
// target, makes its volume non-negative, assigns a density and finally moves its center of mass to
// the origin.
func Normalize(engine GeometryEngine, m *spatialmath.Mesh, cfg *config.Config, logger logging.Logger) (*NormalizeResult, error) {
	box, err := engine.BoundingBox(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute oriented bounding box")
	}
	maxExtent := box.MaxExtent()
	if !(maxExtent > 0) {
		return nil, errors.Errorf("mesh has no extent to scale (largest side %v)", maxExtent)
	}

	res := &NormalizeResult{
		Scale:           cfg.TargetExtent() / maxExtent,
		OriginalExtents: box.Extents,
	}
	engine.ApplyScale(m, res.Scale)

	volume := engine.Volume(m)
	switch {
	case volume < 0:
		engine.Invert(m)
		res.Inverted = true
		volume = engine.Volume(m)
	case volume == 0:
		logger.Debugw("mesh encloses no volume, leaving winding unchanged", "mesh", m.Label())
	}
	res.Volume = volume

	res.Density = Density(cfg, volume)
	engine.SetDensity(m, res.Density)
	res.Mass = res.Density * volume

	engine.Translate(m, engine.CenterOfMass(m).Mul(-1))
	return res, nil
}

// Density returns TargetMass / volume when that stays under the ceiling and the ceiling otherwise.
func Density(cfg *config.Config, volume float64) float64 {
	if cfg.TargetMass/cfg.DensityCeiling < volume {
		return cfg.TargetMass / volume
	}
	return cfg.DensityCeiling
}
