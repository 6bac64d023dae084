package spatialmath

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/flywave/go-stl"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// NewMeshFromFile reads an OBJ, STL or PLY file, chosen by extension, into a welded mesh labeled
// with the file name.
func NewMeshFromFile(path string) (*Mesh, error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(file.Close)

	var mesh *Mesh
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = ReadOBJ(file)
	case ".stl":
		mesh, err = ReadSTL(file)
	case ".ply":
		mesh, err = ReadPLY(file)
	default:
		return nil, NewUnsupportedMeshFormatError(ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", path)
	}
	mesh.SetLabel(filepath.Base(path))
	return mesh, nil
}

// ReadOBJ reads the vertices and faces of a Wavefront OBJ stream. Polygons are fan triangulated
// and every other statement is ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	var vertices []r3.Vector
	var tris []*Triangle

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", lineNum)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			vertices = append(vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			corners := make([]r3.Vector, 0, len(fields)-1)
			for _, token := range fields[1:] {
				idx, err := objIndex(token, len(vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				corners = append(corners, vertices[idx])
			}
			for i := 1; i+1 < len(corners); i++ {
				tris = append(tris, NewTriangle(corners[0], corners[i], corners[i+1]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, ErrEmptyMesh
	}
	return NewMeshFromTriangles(tris), nil
}

// objIndex resolves a face token such as "3", "3/1" or "-1/2/4" to a zero based vertex index.
func objIndex(token string, numVertices int) (int, error) {
	if slash := strings.IndexByte(token, '/'); slash >= 0 {
		token = token[:slash]
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face index %q", token)
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += numVertices
	default:
		return 0, errors.New("face index 0 is not valid")
	}
	if idx < 0 || idx >= numVertices {
		return 0, errors.Errorf("face index %s is out of range for %d vertices", token, numVertices)
	}
	return idx, nil
}

// ReadSTL reads an ASCII or binary STL stream. A stream is binary when its size matches the facet
// count in its header, so a binary file cut short is rejected rather than partially loaded.
func ReadSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	solid, err := stl.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "invalid STL")
	}
	if len(solid.Triangles) == 0 {
		return nil, ErrEmptyMesh
	}
	tris := make([]*Triangle, 0, len(solid.Triangles))
	// Stored normals are ignored and recomputed from the winding.
	for _, facet := range solid.Triangles {
		var pts [3]r3.Vector
		for j, v := range facet.Vertices {
			pts[j] = r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
		tris = append(tris, NewTriangle(pts[0], pts[1], pts[2]))
	}
	return NewMeshFromTriangles(tris), nil
}

// ReadPLY reads the vertex and face elements of an ASCII PLY stream. Polygons are fan
// triangulated.
func ReadPLY(r io.Reader) (mesh *Mesh, err error) {
	// goply panics on binary encodings and malformed headers.
	defer func() {
		if rec := recover(); rec != nil {
			mesh, err = nil, errors.Errorf("invalid PLY: %v", rec)
		}
	}()
	ply := goply.New(r)
	vertexElements := ply.Elements("vertex")
	vertices := make([]r3.Vector, 0, len(vertexElements))
	for i, v := range vertexElements {
		var coords [3]float64
		for j, name := range []string{"x", "y", "z"} {
			value, ok := plyFloat(v[name])
			if !ok {
				return nil, errors.Errorf("vertex %d has no numeric %q property", i, name)
			}
			coords[j] = value
		}
		vertices = append(vertices, r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
	}

	var tris []*Triangle
	for i, f := range ply.Elements("face") {
		raw, ok := f["vertex_indices"]
		if !ok {
			raw = f["vertex_index"]
		}
		indices, ok := plyIndices(raw)
		if !ok || len(indices) < 3 {
			return nil, errors.Errorf("face %d has no usable vertex index list", i)
		}
		for _, idx := range indices {
			if idx < 0 || idx >= len(vertices) {
				return nil, NewFaceIndexError(i, idx, len(vertices))
			}
		}
		for k := 1; k+1 < len(indices); k++ {
			tris = append(tris, NewTriangle(vertices[indices[0]], vertices[indices[k]], vertices[indices[k+1]]))
		}
	}
	if len(tris) == 0 {
		return nil, ErrEmptyMesh
	}
	return NewMeshFromTriangles(tris), nil
}

// plyFloat converts any numeric PLY property value to a float64.
func plyFloat(value interface{}) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

// plyIndices converts a PLY list property of any integer type to vertex indices.
func plyIndices(value interface{}) ([]int, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	indices := make([]int, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		f, ok := plyFloat(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		indices = append(indices, int(f))
	}
	return indices, true
}

func parseVector(fields []string) (r3.Vector, error) {
	var coords [3]float64
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "bad coordinate %q", s)
		}
		coords[i] = v
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
