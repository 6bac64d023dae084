package spatialmath

import (
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestConvexHull(t *testing.T) {
	t.Run("cube with interior points", func(t *testing.T) {
		points := append([]r3.Vector{}, makeCube(2).Vertices()...)
		points = append(points,
			r3.Vector{},
			r3.Vector{X: 0.5, Y: -0.2, Z: 0.1},
			r3.Vector{X: 1, Y: 0, Z: 0}, // on a face
			r3.Vector{X: 1, Y: 1, Z: 1}, // duplicate corner
		)
		hull, err := ConvexHullOfPoints(points)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(hull.Vertices()), test.ShouldEqual, 8)
		test.That(t, len(hull.Faces()), test.ShouldEqual, 12)
		test.That(t, hull.IsWatertight(), test.ShouldBeTrue)
		test.That(t, hull.Volume(), test.ShouldAlmostEqual, 8.)
	})

	t.Run("random cloud", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))
		points := make([]r3.Vector, 200)
		for i := range points {
			points[i] = r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		}
		hull, err := ConvexHullOfPoints(points)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hull.IsWatertight(), test.ShouldBeTrue)
		test.That(t, hull.Volume(), test.ShouldBeGreaterThan, 0)
		for _, tri := range hull.Triangles() {
			for _, p := range points {
				test.That(t, tri.SignedDistance(p), test.ShouldBeLessThanOrEqualTo, 1e-8)
			}
		}
	})

	t.Run("hull of a mesh", func(t *testing.T) {
		m := makeBox(1, 2, 3)
		m.Translate(r3.Vector{X: 5})
		hull, err := m.ConvexHull()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hull.Volume(), test.ShouldAlmostEqual, 6.)
		test.That(t, R3VectorAlmostEqual(hull.CenterOfMass(), r3.Vector{X: 5}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("degenerate", func(t *testing.T) {
		_, err := ConvexHullOfPoints([]r3.Vector{{}, {X: 1}, {Y: 1}})
		test.That(t, err, test.ShouldEqual, ErrDegenerateHull)

		_, err = ConvexHullOfPoints([]r3.Vector{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 0.5, Y: 0.2}})
		test.That(t, err, test.ShouldEqual, ErrDegenerateHull)

		_, err = ConvexHullOfPoints([]r3.Vector{{}, {X: 1}, {X: 2}, {X: 3}})
		test.That(t, err, test.ShouldEqual, ErrDegenerateHull)
	})
}
