package spatialmath

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flywave/go-stl"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Export writes the mesh to path in the format given by its extension.
func (m *Mesh) Export(path string) (err error) {
	var write func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		write = m.WriteOBJ
	case ".stl":
		write = m.WriteSTL
	case ".ply":
		write = m.WritePLY
	default:
		return NewUnsupportedMeshFormatError(ext)
	}

	//nolint:gosec
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()

	buf := bufio.NewWriter(file)
	if err := write(buf); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return buf.Flush()
}

// WriteOBJ writes the mesh as Wavefront OBJ text.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	if m.label != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", m.label); err != nil {
			return err
		}
	}
	for _, v := range m.vertices {
		if _, err := fmt.Fprintf(w, "v %s %s %s\n", formatCoord(v.X), formatCoord(v.Y), formatCoord(v.Z)); err != nil {
			return err
		}
	}
	for _, f := range m.faces {
		if _, err := fmt.Fprintf(w, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1); err != nil {
			return err
		}
	}
	return nil
}

// WriteSTL writes the mesh as binary STL. Coordinates are stored as float32.
func (m *Mesh) WriteSTL(w io.Writer) error {
	// A header starting with "solid" would read back as ASCII.
	header := make([]byte, 80)
	copy(header, "binary STL "+m.label)
	solid := stl.Solid{
		BinaryHeader: header,
		Name:         m.label,
		Triangles:    make([]stl.Triangle, 0, len(m.faces)),
	}
	for _, tri := range m.Triangles() {
		var facet stl.Triangle
		n := tri.Normal()
		facet.Normal[0], facet.Normal[1], facet.Normal[2] = float32(n.X), float32(n.Y), float32(n.Z)
		for j, p := range tri.Points() {
			facet.Vertices[j][0], facet.Vertices[j][1], facet.Vertices[j][2] = float32(p.X), float32(p.Y), float32(p.Z)
		}
		solid.Triangles = append(solid.Triangles, facet)
	}
	return solid.WriteAll(w)
}

// WritePLY writes the mesh as ASCII PLY.
func (m *Mesh) WritePLY(w io.Writer) error {
	header := []string{
		"ply",
		"format ascii 1.0",
		fmt.Sprintf("element vertex %d", len(m.vertices)),
		"property double x",
		"property double y",
		"property double z",
		fmt.Sprintf("element face %d", len(m.faces)),
		"property list uchar int vertex_indices",
		"end_header",
	}
	if _, err := io.WriteString(w, strings.Join(header, "\n")+"\n"); err != nil {
		return err
	}
	for _, v := range m.vertices {
		if _, err := fmt.Fprintf(w, "%s %s %s\n", formatCoord(v.X), formatCoord(v.Y), formatCoord(v.Z)); err != nil {
			return err
		}
	}
	for _, f := range m.faces {
		if _, err := fmt.Fprintf(w, "3 %d %d %d\n", f[0], f[1], f[2]); err != nil {
			return err
		}
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
