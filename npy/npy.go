// Package npy reads and writes float64 arrays in the NumPy .npy format.
package npy

import (
	"bufio"
	"io"
	"os"
	"reflect"

	"github.com/pkg/errors"
	npyio "github.com/sbinet/npyio/npy"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// Float64Descr is the dtype descriptor of little endian float64 data.
const Float64Descr = "<f8"

// maxElements bounds the arrays Read will allocate for.
const maxElements = 1 << 28

// Array is an n-dimensional float64 array stored in C order.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray returns an Array after checking that data fills shape.
func NewArray(shape []int, data []float64) (*Array, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if n := numElements(shape); n != len(data) {
		return nil, errors.Errorf("shape %v holds %d values but %d were given", shape, n, len(data))
	}
	return &Array{Shape: shape, Data: data}, nil
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func checkShape(shape []int) error {
	if len(shape) == 0 {
		return errors.New("scalar arrays are not supported")
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return errors.Errorf("negative dimension in shape %v", shape)
		}
		if d > 0 && n > maxElements/d {
			return errors.Errorf("shape %v holds more than %d values", shape, maxElements)
		}
		n *= d
	}
	return nil
}

// nested copies the array into a slice of fixed size arrays, so its Go type carries the shape.
// An empty array has no element to take trailing dimensions from and is written as (0,).
func (a *Array) nested() interface{} {
	elem := reflect.TypeOf(float64(0))
	for i := len(a.Shape) - 1; i > 0; i-- {
		elem = reflect.ArrayOf(a.Shape[i], elem)
	}
	out := reflect.MakeSlice(reflect.SliceOf(elem), a.Shape[0], a.Shape[0])
	flat := 0
	var fill func(v reflect.Value)
	fill = func(v reflect.Value) {
		if v.Kind() == reflect.Float64 {
			v.SetFloat(a.Data[flat])
			flat++
			return
		}
		for i := 0; i < v.Len(); i++ {
			fill(v.Index(i))
		}
	}
	fill(out)
	return out.Interface()
}

// Write encodes the array as .npy to w.
func (a *Array) Write(w io.Writer) error {
	if err := checkShape(a.Shape); err != nil {
		return err
	}
	if numElements(a.Shape) != len(a.Data) {
		return errors.Errorf("shape %v does not match %d values", a.Shape, len(a.Data))
	}
	return npyio.Write(w, a.nested())
}

// WriteFile writes the array to path, replacing any existing file.
func (a *Array) WriteFile(path string) (err error) {
	//nolint:gosec
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, file.Close())
	}()
	buf := bufio.NewWriter(file)
	if err := a.Write(buf); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return buf.Flush()
}

// Read decodes a little endian float64 .npy stream in C order.
func Read(r io.Reader) (arr *Array, err error) {
	// npyio indexes into the header without checking its framing.
	defer func() {
		if rec := recover(); rec != nil {
			arr, err = nil, errors.Errorf("malformed npy header: %v", rec)
		}
	}()
	reader, err := npyio.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read npy header")
	}
	descr := reader.Header.Descr
	if descr.Type != Float64Descr {
		return nil, errors.Errorf("unsupported dtype %q", descr.Type)
	}
	if descr.Fortran {
		return nil, errors.New("only C ordered arrays are supported")
	}
	if err := checkShape(descr.Shape); err != nil {
		return nil, errors.Wrap(err, "bad npy shape")
	}

	data := []float64{}
	if err := reader.Read(&data); err != nil {
		return nil, errors.Wrap(err, "failed to read npy data")
	}
	return &Array{Shape: descr.Shape, Data: data}, nil
}

// ReadFile reads a .npy file.
func ReadFile(path string) (*Array, error) {
	//nolint:gosec
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(file.Close)
	return Read(bufio.NewReader(file))
}
