package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Mesh is a triangulated surface. Faces index into the shared vertex list and are wound counter
// clockwise when seen from outside, so a closed mesh has positive volume.
type Mesh struct {
	vertices []r3.Vector
	faces    [][3]int
	density  float64
	label    string
}

// NewMesh creates a mesh from shared vertices and faces. Density starts at 1.
func NewMesh(vertices []r3.Vector, faces [][3]int) (*Mesh, error) {
	for i, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(vertices) {
				return nil, NewFaceIndexError(i, idx, len(vertices))
			}
		}
	}
	return &Mesh{vertices: vertices, faces: faces, density: 1}, nil
}

// NewMeshFromTriangles creates a mesh from loose triangles, merging coincident corners so that
// adjacency and watertightness can be evaluated.
func NewMeshFromTriangles(triangles []*Triangle) *Mesh {
	indices := make(map[pointKey]int)
	vertices := make([]r3.Vector, 0, len(triangles))
	faces := make([][3]int, 0, len(triangles))
	for _, tri := range triangles {
		var face [3]int
		for i, pt := range tri.Points() {
			k := quantizePoint(pt)
			idx, ok := indices[k]
			if !ok {
				idx = len(vertices)
				indices[k] = idx
				vertices = append(vertices, pt)
			}
			face[i] = idx
		}
		// Faces collapsed by merging carry no area and no adjacency.
		if face[0] == face[1] || face[1] == face[2] || face[2] == face[0] {
			continue
		}
		faces = append(faces, face)
	}
	return &Mesh{vertices: vertices, faces: faces, density: 1}
}

// Label returns the label of the mesh, usually the file it was read from.
func (m *Mesh) Label() string {
	return m.label
}

// SetLabel sets the label of the mesh.
func (m *Mesh) SetLabel(label string) {
	m.label = label
}

// Vertices returns the shared vertex list. Callers must not modify it.
func (m *Mesh) Vertices() []r3.Vector {
	return m.vertices
}

// Faces returns the vertex indices of each face. Callers must not modify it.
func (m *Mesh) Faces() [][3]int {
	return m.faces
}

// Triangles returns a Triangle per face.
func (m *Mesh) Triangles() []*Triangle {
	tris := make([]*Triangle, 0, len(m.faces))
	for _, f := range m.faces {
		tris = append(tris, NewTriangle(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]))
	}
	return tris
}

// Density returns the density used for mass and inertia.
func (m *Mesh) Density() float64 {
	return m.density
}

// SetDensity sets the density used for mass and inertia.
func (m *Mesh) SetDensity(density float64) {
	m.density = density
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	vertices := make([]r3.Vector, len(m.vertices))
	copy(vertices, m.vertices)
	faces := make([][3]int, len(m.faces))
	copy(faces, m.faces)
	return &Mesh{vertices: vertices, faces: faces, density: m.density, label: m.label}
}

// ApplyScale multiplies every vertex coordinate by factor.
func (m *Mesh) ApplyScale(factor float64) {
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].Mul(factor)
	}
}

// Translate moves every vertex by offset.
func (m *Mesh) Translate(offset r3.Vector) {
	for i := range m.vertices {
		m.vertices[i] = m.vertices[i].Add(offset)
	}
}

// ApplyTransform applies a 4x4 homogeneous rigid transform to every vertex.
func (m *Mesh) ApplyTransform(tf mat.Matrix) {
	for i, v := range m.vertices {
		m.vertices[i] = TransformPoint(tf, v)
	}
}

// Invert reverses the winding of every face, flipping normals and the sign of the volume.
func (m *Mesh) Invert() {
	for i, f := range m.faces {
		m.faces[i] = [3]int{f[0], f[2], f[1]}
	}
}

// Bounds returns the corners of the axis aligned bounding box.
func (m *Mesh) Bounds() (r3.Vector, r3.Vector) {
	if len(m.vertices) == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	lo, hi := m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		lo = componentMin(lo, v)
		hi = componentMax(hi, v)
	}
	return lo, hi
}

// Volume returns the signed enclosed volume. It is negative when faces are wound inward and only
// meaningful for a watertight mesh.
func (m *Mesh) Volume() float64 {
	return m.massProperties().volume
}

// Mass returns density times volume.
func (m *Mesh) Mass() float64 {
	return m.density * m.Volume()
}

// CenterOfMass returns the center of mass of the enclosed solid assuming uniform density. For a
// mesh without volume the area weighted centroid of the surface is returned instead.
func (m *Mesh) CenterOfMass() r3.Vector {
	props := m.massProperties()
	if props.volume != 0 {
		return props.centerMass
	}
	return m.surfaceCentroid()
}

// MomentInertia returns the inertia tensor of the solid about its center of mass, scaled by
// density.
func (m *Mesh) MomentInertia() *mat.SymDense {
	return m.massProperties().inertia(m.density)
}

// Area returns the total surface area.
func (m *Mesh) Area() float64 {
	var area float64
	for _, tri := range m.Triangles() {
		area += tri.Area()
	}
	return area
}

// BoundaryEdges returns the number of edges that are not shared by exactly two faces.
func (m *Mesh) BoundaryEdges() int {
	counts := make(map[[2]int]int, len(m.faces)*3/2)
	for _, f := range m.faces {
		for i := 0; i < 3; i++ {
			counts[undirectedEdge(f[i], f[(i+1)%3])]++
		}
	}
	var boundary int
	for _, c := range counts {
		if c != 2 {
			boundary++
		}
	}
	return boundary
}

// IsWatertight reports whether every edge is shared by exactly two faces.
func (m *Mesh) IsWatertight() bool {
	return len(m.faces) > 0 && m.BoundaryEdges() == 0
}

func (m *Mesh) surfaceCentroid() r3.Vector {
	var total float64
	var weighted r3.Vector
	for _, tri := range m.Triangles() {
		area := tri.Area()
		total += area
		weighted = weighted.Add(tri.Centroid().Mul(area))
	}
	if total > 0 {
		return weighted.Mul(1 / total)
	}
	if len(m.vertices) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, v := range m.vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(m.vertices)))
}

func undirectedEdge(a, b int) [2]int {
	if a > b {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}

// TransformPoint applies a 4x4 homogeneous transform to pt.
func TransformPoint(tf mat.Matrix, pt r3.Vector) r3.Vector {
	return r3.Vector{
		X: tf.At(0, 0)*pt.X + tf.At(0, 1)*pt.Y + tf.At(0, 2)*pt.Z + tf.At(0, 3),
		Y: tf.At(1, 0)*pt.X + tf.At(1, 1)*pt.Y + tf.At(1, 2)*pt.Z + tf.At(1, 3),
		Z: tf.At(2, 0)*pt.X + tf.At(2, 1)*pt.Y + tf.At(2, 2)*pt.Z + tf.At(2, 3),
	}
}
