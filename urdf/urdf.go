package urdf

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// FormatFloat renders v with the fewest digits that parse back to the same float64.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Marshal serializes the document with an XML declaration and two space indentation.
func Marshal(r *Robot) ([]byte, error) {
	output, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal URDF")
	}
	return []byte(xml.Header + string(output) + "\n"), nil
}

// WriteFile writes the document to path.
func WriteFile(path string, r *Robot) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Parse reads a URDF document.
func Parse(data []byte) (*Robot, error) {
	r := &Robot{}
	if err := xml.Unmarshal(data, r); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent Robot struct")
	}
	return r, nil
}

// ReadFile reads a URDF document from path.
func ReadFile(path string) (*Robot, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// MassValue returns the parsed mass of the inertial element.
func (i *Inertial) MassValue() (float64, error) {
	return strconv.ParseFloat(i.Mass.Value, 64)
}

// Tensor returns the full symmetric inertia tensor.
func (i *Inertial) Tensor() (*mat.SymDense, error) {
	var values [6]float64
	for idx, s := range []string{i.Inertia.Ixx, i.Inertia.Ixy, i.Inertia.Ixz, i.Inertia.Iyy, i.Inertia.Iyz, i.Inertia.Izz} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad inertia value %q", s)
		}
		values[idx] = v
	}
	ixx, ixy, ixz, iyy, iyz, izz := values[0], values[1], values[2], values[3], values[4], values[5]
	return mat.NewSymDense(3, []float64{
		ixx, ixy, ixz,
		ixy, iyy, iyz,
		ixz, iyz, izz,
	}), nil
}

// spaceDelimitedStringToFloatSlice is a helper method to split up space-delimited fields in a string and converts them to floats.
func spaceDelimitedStringToFloatSlice(s string) []float64 {
	var converted []float64
	slice := strings.Fields(s)
	for _, value := range slice {
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			value = math.NaN()
		}
		converted = append(converted, value)
	}
	return converted
}

// ScaleVector returns the mesh scale, defaulting to 1 on every axis when unset.
func (m *MeshRef) ScaleVector() [3]float64 {
	scale := [3]float64{1, 1, 1}
	if values := spaceDelimitedStringToFloatSlice(m.Scale); len(values) == 3 {
		copy(scale[:], values)
	}
	return scale
}
