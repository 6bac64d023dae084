package asset

import (
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/meshasset/config"
	"go.viam.com/meshasset/spatialmath"
)

var (
	boxFaces = [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	// cubeEdge is the edge a cube is scaled to by the default config.
	cubeEdge = 0.08 * 0.8 * 1.34
)

func boxVertices(x, y, z float64, offset r3.Vector) []r3.Vector {
	hx, hy, hz := x/2, y/2, z/2
	vertices := []r3.Vector{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz},
	}
	for i := range vertices {
		vertices[i] = vertices[i].Add(offset)
	}
	return vertices
}

// writeMesh exports a mesh built from vertices and faces to dir/name and returns the path.
func writeMesh(t *testing.T, dir, name string, vertices []r3.Vector, faces [][3]int) string {
	t.Helper()
	m, err := spatialmath.NewMesh(vertices, faces)
	test.That(t, err, test.ShouldBeNil)
	path := filepath.Join(dir, name)
	test.That(t, m.Export(path), test.ShouldBeNil)
	return path
}

func writeBox(t *testing.T, dir, name string, x, y, z float64, offset r3.Vector) string {
	t.Helper()
	return writeMesh(t, dir, name, boxVertices(x, y, z, offset), boxFaces)
}

// exactConfig disables center of mass jitter so stable pose probabilities are exact.
func exactConfig() *config.Config {
	cfg := config.Default()
	cfg.StablePoseSigma = 0
	cfg.Seed = 7
	return cfg
}
