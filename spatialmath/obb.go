package spatialmath

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// OrientedBox is a box with arbitrary orientation. Axes are orthonormal and Extents holds the
// full side length along each axis.
type OrientedBox struct {
	Center  r3.Vector
	Axes    [3]r3.Vector
	Extents r3.Vector
}

// Volume returns the volume of the box.
func (b *OrientedBox) Volume() float64 {
	return b.Extents.X * b.Extents.Y * b.Extents.Z
}

// MaxExtent returns the longest side of the box.
func (b *OrientedBox) MaxExtent() float64 {
	return MaxCoord(b.Extents)
}

// OrientedBoundingBox approximates the minimum volume box enclosing the mesh. Every distinct
// face normal of the convex hull is tried as an axis, with the remaining two axes fit by a
// minimum area rectangle of the projected hull. The principal axes and the world axes are also
// tried. Meshes without a three dimensional hull fall back to principal axes of the vertices.
func (m *Mesh) OrientedBoundingBox() (*OrientedBox, error) {
	if len(m.vertices) == 0 {
		return nil, ErrEmptyMesh
	}

	points := m.vertices
	var normals []r3.Vector
	hull, err := m.ConvexHull()
	switch {
	case err == nil:
		points = hull.vertices
		normals = distinctNormals(hull.Triangles())
	case err != ErrDegenerateHull:
		return nil, err
	}

	best := boxAlongAxes(points, [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}})
	if axes, ok := principalAxes(points); ok {
		if candidate := boxAlongAxes(points, axes); candidate.Volume() < best.Volume() {
			best = candidate
		}
	}
	for _, n := range normals {
		candidate := minAreaBoxAlong(points, n)
		if candidate.Volume() < best.Volume() {
			best = candidate
		}
	}
	return best, nil
}

// boxAlongAxes fits the tightest box with the given orthonormal axes.
func boxAlongAxes(points []r3.Vector, axes [3]r3.Vector) *OrientedBox {
	var lo, hi [3]float64
	for i := range lo {
		lo[i], hi[i] = math.Inf(1), math.Inf(-1)
	}
	for _, p := range points {
		for i, axis := range axes {
			d := p.Dot(axis)
			lo[i] = math.Min(lo[i], d)
			hi[i] = math.Max(hi[i], d)
		}
	}
	var center r3.Vector
	for i, axis := range axes {
		center = center.Add(axis.Mul((lo[i] + hi[i]) / 2))
	}
	return &OrientedBox{
		Center:  center,
		Axes:    axes,
		Extents: r3.Vector{X: hi[0] - lo[0], Y: hi[1] - lo[1], Z: hi[2] - lo[2]},
	}
}

// minAreaBoxAlong fits a box with one axis along normal. The other two axes come from the edge of
// the projected 2D hull that yields the smallest enclosing rectangle.
func minAreaBoxAlong(points []r3.Vector, normal r3.Vector) *OrientedBox {
	u := normal.Ortho()
	v := normal.Cross(u)

	projected := make([][2]float64, len(points))
	for i, p := range points {
		projected[i] = [2]float64{p.Dot(u), p.Dot(v)}
	}
	outline := convexHull2D(projected)

	bestAxes := [3]r3.Vector{normal, u, v}
	bestArea := math.Inf(1)
	for i := range outline {
		a, b := outline[i], outline[(i+1)%len(outline)]
		dx, dy := b[0]-a[0], b[1]-a[1]
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		dx, dy = dx/length, dy/length
		minE, maxE, minP, maxP := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
		for _, q := range outline {
			e := q[0]*dx + q[1]*dy
			p := -q[0]*dy + q[1]*dx
			minE, maxE = math.Min(minE, e), math.Max(maxE, e)
			minP, maxP = math.Min(minP, p), math.Max(maxP, p)
		}
		if area := (maxE - minE) * (maxP - minP); area < bestArea {
			bestArea = area
			edgeDir := u.Mul(dx).Add(v.Mul(dy)).Normalize()
			bestAxes = [3]r3.Vector{edgeDir, normal.Cross(edgeDir), normal}
		}
	}
	return boxAlongAxes(points, bestAxes)
}

// principalAxes returns the eigenvectors of the covariance of points.
func principalAxes(points []r3.Vector) ([3]r3.Vector, bool) {
	var axes [3]r3.Vector
	if len(points) < 2 {
		return axes, false
	}
	var mean r3.Vector
	for _, p := range points {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1 / float64(len(points)))

	cov := mat.NewSymDense(3, nil)
	for _, p := range points {
		d := p.Sub(mean)
		c := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				cov.SetSym(i, j, cov.At(i, j)+c[i]*c[j])
			}
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return axes, false
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	for i := 0; i < 3; i++ {
		axes[i] = r3.Vector{X: vectors.At(0, i), Y: vectors.At(1, i), Z: vectors.At(2, i)}.Normalize()
	}
	// Re-orthogonalize the last axis so the frame is right handed.
	axes[2] = axes[0].Cross(axes[1]).Normalize()
	return axes, true
}

// distinctNormals returns the unit normals of tris with near duplicates removed.
func distinctNormals(tris []*Triangle) []r3.Vector {
	seen := make(map[[3]int64]bool)
	var normals []r3.Vector
	for _, tri := range tris {
		n := tri.Normal()
		if n.Norm2() == 0 {
			continue
		}
		// n and -n give the same box.
		if n.X < 0 || (n.X == 0 && (n.Y < 0 || (n.Y == 0 && n.Z < 0))) {
			n = n.Mul(-1)
		}
		k := roundedNormalKey(n)
		if seen[k] {
			continue
		}
		seen[k] = true
		normals = append(normals, n)
	}
	return normals
}

// roundedNormalKey rounds a unit normal to three decimals.
func roundedNormalKey(n r3.Vector) [3]int64 {
	return [3]int64{int64(math.Round(n.X * 1e3)), int64(math.Round(n.Y * 1e3)), int64(math.Round(n.Z * 1e3))}
}

// convexHull2D returns the counter clockwise convex hull of pts using the monotone chain
// algorithm.
func convexHull2D(pts [][2]float64) [][2]float64 {
	sorted := make([][2]float64, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})
	if len(sorted) < 3 {
		return sorted
	}

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}
	hull := make([][2]float64, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
