package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	// floatEpsilon is the relative tolerance used for coplanarity tests.
	floatEpsilon = 1e-9
	// mergeTolerance is the distance under which two vertices are treated as the same point.
	mergeTolerance = 1e-8
)

type pointKey [3]int64

// quantizePoint snaps a point to the mergeTolerance grid so coincident points share a key.
func quantizePoint(v r3.Vector) pointKey {
	return pointKey{
		int64(math.Round(v.X / mergeTolerance)),
		int64(math.Round(v.Y / mergeTolerance)),
		int64(math.Round(v.Z / mergeTolerance)),
	}
}

// PlaneNormal returns the unit normal of the plane through p0, p1 and p2 following the right
// hand rule. Collinear points yield the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if norm := n.Norm(); norm > 0 {
		return n.Mul(1 / norm)
	}
	return r3.Vector{}
}

// MaxCoord returns the largest component of v.
func MaxCoord(v r3.Vector) float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

// componentMin returns the component-wise minimum of a and b.
func componentMin(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// componentMax returns the component-wise maximum of a and b.
func componentMax(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// R3VectorAlmostEqual compares two r3.Vectors component-wise within epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) <= epsilon && math.Abs(a.Y-b.Y) <= epsilon && math.Abs(a.Z-b.Z) <= epsilon
}
