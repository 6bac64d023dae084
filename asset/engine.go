// Package asset converts mesh files into URDF asset bundles.
package asset

import (
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/meshasset/logging"
	"go.viam.com/meshasset/spatialmath"
)

// GeometryEngine is the set of mesh operations the conversion pipeline needs.
type GeometryEngine interface {
	Load(path string) (*spatialmath.Mesh, error)
	BoundingBox(m *spatialmath.Mesh) (*spatialmath.OrientedBox, error)
	Volume(m *spatialmath.Mesh) float64
	InertiaTensor(m *spatialmath.Mesh) *mat.SymDense
	CenterOfMass(m *spatialmath.Mesh) r3.Vector
	SetDensity(m *spatialmath.Mesh, density float64)
	Invert(m *spatialmath.Mesh)
	ApplyScale(m *spatialmath.Mesh, factor float64)
	Translate(m *spatialmath.Mesh, offset r3.Vector)
	Export(m *spatialmath.Mesh, path string) error
	SampleStablePoses(m *spatialmath.Mesh, centerOfMass r3.Vector, n int, sigma float64) ([]spatialmath.StablePose, error)
	IsWatertight(m *spatialmath.Mesh) bool
}

type meshEngine struct {
	logger      logging.Logger
	rng         *rand.Rand
	maxAttempts int
}

// NewEngine returns a GeometryEngine backed by the spatialmath package. Stable pose sampling
// draws from a generator seeded with seed and gives up on a sample after maxAttempts draws.
func NewEngine(logger logging.Logger, seed uint64, maxAttempts int) GeometryEngine {
	return &meshEngine{
		logger:      logger,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		maxAttempts: maxAttempts,
	}
}

func (e *meshEngine) Load(path string) (*spatialmath.Mesh, error) {
	return spatialmath.NewMeshFromFile(path)
}

func (e *meshEngine) BoundingBox(m *spatialmath.Mesh) (*spatialmath.OrientedBox, error) {
	return m.OrientedBoundingBox()
}

func (e *meshEngine) Volume(m *spatialmath.Mesh) float64 {
	return m.Volume()
}

func (e *meshEngine) InertiaTensor(m *spatialmath.Mesh) *mat.SymDense {
	return m.MomentInertia()
}

func (e *meshEngine) CenterOfMass(m *spatialmath.Mesh) r3.Vector {
	return m.CenterOfMass()
}

func (e *meshEngine) SetDensity(m *spatialmath.Mesh, density float64) {
	m.SetDensity(density)
}

func (e *meshEngine) Invert(m *spatialmath.Mesh) {
	m.Invert()
}

func (e *meshEngine) ApplyScale(m *spatialmath.Mesh, factor float64) {
	m.ApplyScale(factor)
}

func (e *meshEngine) Translate(m *spatialmath.Mesh, offset r3.Vector) {
	m.Translate(offset)
}

func (e *meshEngine) Export(m *spatialmath.Mesh, path string) error {
	return m.Export(path)
}

func (e *meshEngine) SampleStablePoses(
	m *spatialmath.Mesh,
	centerOfMass r3.Vector,
	n int,
	sigma float64,
) ([]spatialmath.StablePose, error) {
	return spatialmath.ComputeStablePoses(m, spatialmath.StablePoseOptions{
		CenterOfMass: centerOfMass,
		Samples:      n,
		Sigma:        sigma,
		Rand:         e.rng,
		MaxAttempts:  e.maxAttempts,
		OnExhausted: func(sample int) {
			e.logger.Warnw("no center of mass sample landed inside the hull, using the nominal one",
				"sample", sample, "attempts", e.maxAttempts)
		},
	})
}

func (e *meshEngine) IsWatertight(m *spatialmath.Mesh) bool {
	return m.IsWatertight()
}
