package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBasicTriangleFunctions(t *testing.T) {
	expectedPts := []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}}
	tri := NewTriangle(expectedPts[0], expectedPts[1], expectedPts[2])

	expectedNormal := r3.Vector{X: 0, Y: 0, Z: 1}
	expectedArea := 4.5
	expectedCentroid := r3.Vector{X: 1, Y: 1, Z: 0}

	t.Run("constructor", func(t *testing.T) {
		test.That(t, tri.Points(), test.ShouldResemble, expectedPts)
		test.That(t, tri.Normal(), test.ShouldResemble, expectedNormal)
	})

	t.Run("area", func(t *testing.T) {
		test.That(t, tri.Area(), test.ShouldEqual, expectedArea)
	})

	t.Run("centroid", func(t *testing.T) {
		test.That(t, tri.Centroid(), test.ShouldResemble, expectedCentroid)
	})

	t.Run("project and signed distance", func(t *testing.T) {
		test.That(t, tri.ProjectPoint(r3.Vector{X: 1, Y: 2, Z: 5}), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 0})
		test.That(t, tri.SignedDistance(r3.Vector{X: 1, Y: 2, Z: 5}), test.ShouldEqual, 5.)
		test.That(t, tri.SignedDistance(r3.Vector{X: 1, Y: 2, Z: -2}), test.ShouldEqual, -2.)
	})

	t.Run("closest triangle inside point", func(t *testing.T) {
		// interior
		closestPoint, isInside := tri.ClosestInsidePoint(r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// above edge
		closestPoint, isInside = tri.ClosestInsidePoint(r3.Vector{X: 2, Y: 0, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 2, Y: 0, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// above vertex
		closestPoint, isInside = tri.ClosestInsidePoint(r3.Vector{X: 0, Y: 3, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 0, Y: 3, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// outside (obtuse with triangle)
		_, isInside = tri.ClosestInsidePoint(r3.Vector{X: 1, Y: -1, Z: 1})
		test.That(t, isInside, test.ShouldBeFalse)

		// outside (straight with triangle)
		_, isInside = tri.ClosestInsidePoint(r3.Vector{X: 0, Y: 4, Z: 0})
		test.That(t, isInside, test.ShouldBeFalse)

		// interior, testing a triangle rotated off the xy-plane
		rotatedPts := []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 50, Y: 0, Z: 0}, {X: 0, Y: 30, Z: 40}}
		rotatedTri := NewTriangle(rotatedPts[0], rotatedPts[1], rotatedPts[2])
		closestPoint, isInside = rotatedTri.ClosestInsidePoint(r3.Vector{X: 1, Y: 3 + 4, Z: 4 - 3})
		test.That(t, R3VectorAlmostEqual(closestPoint, r3.Vector{X: 1, Y: 3, Z: 4}, 1e-9), test.ShouldBeTrue)
		test.That(t, isInside, test.ShouldBeTrue)
	})

	t.Run("degenerate", func(t *testing.T) {
		line := NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2})
		test.That(t, line.Normal(), test.ShouldResemble, r3.Vector{})
		test.That(t, line.Area(), test.ShouldEqual, 0.)
		_, isInside := line.ClosestInsidePoint(r3.Vector{X: 1, Y: 1})
		test.That(t, isInside, test.ShouldBeFalse)
	})
}

func TestSolidAngle(t *testing.T) {
	t.Run("octant", func(t *testing.T) {
		// The triangle spanning the unit axes covers one eighth of the sphere around the origin.
		tri := NewTriangle(r3.Vector{X: 1}, r3.Vector{Y: 1}, r3.Vector{Z: 1})
		test.That(t, tri.SolidAngle(r3.Vector{}), test.ShouldAlmostEqual, 4*math.Pi/8)
	})

	t.Run("closed surface", func(t *testing.T) {
		cube := makeCube(2)
		var total float64
		for _, tri := range cube.Triangles() {
			total += tri.SolidAngle(r3.Vector{X: 0.3, Y: -0.2, Z: 0.5})
		}
		test.That(t, total, test.ShouldAlmostEqual, 4*math.Pi)
	})

	t.Run("far away", func(t *testing.T) {
		tri := NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1})
		test.That(t, tri.SolidAngle(r3.Vector{Z: 1e6}), test.ShouldBeLessThan, 1e-9)
	})
}
