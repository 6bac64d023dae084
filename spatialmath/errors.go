package spatialmath

import (
	"github.com/pkg/errors"
)

var (
	// ErrDegenerateHull is returned when the points of a mesh are coplanar or collinear and no
	// three dimensional convex hull exists.
	ErrDegenerateHull = errors.New("points do not span three dimensions")

	// ErrEmptyMesh is returned when a mesh has no faces.
	ErrEmptyMesh = errors.New("mesh has no faces")
)

// NewUnsupportedMeshFormatError is returned when a mesh file extension is not recognized.
func NewUnsupportedMeshFormatError(ext string) error {
	return errors.Errorf("unsupported mesh file format: %q (must be .obj, .stl or .ply)", ext)
}

// NewFaceIndexError is returned when a face references a vertex that does not exist.
func NewFaceIndexError(face, index, numVertices int) error {
	return errors.Errorf("face %d references vertex %d but the mesh only has %d vertices", face, index, numVertices)
}
