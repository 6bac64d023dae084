package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// hullFace is a face of a convex hull under construction. Points with a positive signed distance
// to its plane are in front of it.
type hullFace struct {
	v      [3]int
	normal r3.Vector
	offset float64
	alive  bool
}

func (f *hullFace) distance(pt r3.Vector) float64 {
	return f.normal.Dot(pt) - f.offset
}

// ConvexHull returns the convex hull of the mesh vertices as a closed mesh with outward facing
// faces.
func (m *Mesh) ConvexHull() (*Mesh, error) {
	return ConvexHullOfPoints(m.vertices)
}

// ConvexHullOfPoints computes the convex hull of points with an incremental algorithm. Faces of
// the result are wound so their normals point away from the hull. Coplanar regions are left
// triangulated. ErrDegenerateHull is returned when the points do not span three dimensions.
func ConvexHullOfPoints(points []r3.Vector) (*Mesh, error) {
	pts := uniquePoints(points)
	if len(pts) < 4 {
		return nil, ErrDegenerateHull
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = componentMin(lo, p)
		hi = componentMax(hi, p)
	}
	eps := floatEpsilon * math.Max(1, hi.Sub(lo).Norm())

	seed, err := initialSimplex(pts, eps)
	if err != nil {
		return nil, err
	}

	faces := make([]*hullFace, 0, 4*len(pts))
	edges := make(map[[2]int]int)
	addFace := func(a, b, c int) {
		n := PlaneNormal(pts[a], pts[b], pts[c])
		f := &hullFace{v: [3]int{a, b, c}, normal: n, offset: n.Dot(pts[a]), alive: true}
		idx := len(faces)
		faces = append(faces, f)
		edges[[2]int{a, b}] = idx
		edges[[2]int{b, c}] = idx
		edges[[2]int{c, a}] = idx
	}

	interior := pts[seed[0]].Add(pts[seed[1]]).Add(pts[seed[2]]).Add(pts[seed[3]]).Mul(0.25)
	for _, tri := range [][3]int{
		{seed[0], seed[1], seed[2]},
		{seed[0], seed[3], seed[1]},
		{seed[1], seed[3], seed[2]},
		{seed[2], seed[3], seed[0]},
	} {
		a, b, c := tri[0], tri[1], tri[2]
		if PlaneNormal(pts[a], pts[b], pts[c]).Dot(interior.Sub(pts[a])) > 0 {
			b, c = c, b
		}
		addFace(a, b, c)
	}

	used := map[int]bool{seed[0]: true, seed[1]: true, seed[2]: true, seed[3]: true}
	for pi, p := range pts {
		if used[pi] {
			continue
		}

		visible := make(map[int]bool)
		var visibleOrder []int
		for fi, f := range faces {
			if f.alive && f.distance(p) > eps {
				visible[fi] = true
				visibleOrder = append(visibleOrder, fi)
			}
		}
		if len(visibleOrder) == 0 {
			continue
		}

		var horizon [][2]int
		for _, fi := range visibleOrder {
			f := faces[fi]
			for k := 0; k < 3; k++ {
				a, b := f.v[k], f.v[(k+1)%3]
				if neighbor, ok := edges[[2]int{b, a}]; ok && !visible[neighbor] {
					horizon = append(horizon, [2]int{a, b})
				}
			}
		}

		for _, fi := range visibleOrder {
			f := faces[fi]
			f.alive = false
			for k := 0; k < 3; k++ {
				edge := [2]int{f.v[k], f.v[(k+1)%3]}
				if edges[edge] == fi {
					delete(edges, edge)
				}
			}
		}
		for _, e := range horizon {
			addFace(e[0], e[1], pi)
		}
		used[pi] = true
	}

	remap := make(map[int]int)
	var vertices []r3.Vector
	var hullFaces [][3]int
	for _, f := range faces {
		if !f.alive {
			continue
		}
		var face [3]int
		for k, idx := range f.v {
			newIdx, ok := remap[idx]
			if !ok {
				newIdx = len(vertices)
				remap[idx] = newIdx
				vertices = append(vertices, pts[idx])
			}
			face[k] = newIdx
		}
		hullFaces = append(hullFaces, face)
	}
	return NewMesh(vertices, hullFaces)
}

// initialSimplex picks four points spanning a tetrahedron of non-trivial volume.
func initialSimplex(pts []r3.Vector, eps float64) ([4]int, error) {
	var seed [4]int
	for i, p := range pts {
		if p.X < pts[seed[0]].X {
			seed[0] = i
		}
	}

	best := -1.
	for i, p := range pts {
		if d := p.Sub(pts[seed[0]]).Norm2(); d > best {
			best, seed[1] = d, i
		}
	}
	if math.Sqrt(best) <= eps {
		return seed, ErrDegenerateHull
	}

	axis := pts[seed[1]].Sub(pts[seed[0]]).Normalize()
	best = -1
	for i, p := range pts {
		rel := p.Sub(pts[seed[0]])
		if d := rel.Sub(axis.Mul(rel.Dot(axis))).Norm(); d > best {
			best, seed[2] = d, i
		}
	}
	if best <= eps {
		return seed, ErrDegenerateHull
	}

	normal := PlaneNormal(pts[seed[0]], pts[seed[1]], pts[seed[2]])
	best = -1
	for i, p := range pts {
		if d := math.Abs(p.Sub(pts[seed[0]]).Dot(normal)); d > best {
			best, seed[3] = d, i
		}
	}
	if best <= eps {
		return seed, ErrDegenerateHull
	}
	return seed, nil
}

// uniquePoints drops points that coincide within mergeTolerance.
func uniquePoints(points []r3.Vector) []r3.Vector {
	seen := make(map[pointKey]bool, len(points))
	unique := make([]r3.Vector, 0, len(points))
	for _, p := range points {
		k := quantizePoint(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, p)
	}
	return unique
}
