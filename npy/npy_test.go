package npy

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

// rawFile frames a version 1.0 header and body the way numpy does.
func rawFile(header string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY\x01\x00")
	//nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	buf.Write(body)
	return buf.Bytes()
}

func TestWriteHeader(t *testing.T) {
	arr, err := NewArray([]int{2, 4, 4}, make([]float64, 32))
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, arr.Write(&buf), test.ShouldBeNil)
	raw := buf.Bytes()

	test.That(t, string(raw[:6]), test.ShouldEqual, "\x93NUMPY")
	test.That(t, raw[6], test.ShouldEqual, byte(2))

	headerLen := int(binary.LittleEndian.Uint32(raw[8:12]))
	header := string(raw[12 : 12+headerLen])
	test.That(t, header, test.ShouldStartWith, "{'descr': '<f8', 'fortran_order': False, 'shape': (2, 4, 4), }")
	test.That(t, header[len(header)-1], test.ShouldEqual, byte('\n'))
	test.That(t, len(raw), test.ShouldEqual, 12+headerLen+32*8)
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		shape []int
		data  []float64
		want  []int
	}{
		{"poses", []int{1, 4, 4}, []float64{1, 0, 0, 0.001, 0, 1, 0, -0.002, 0, 0, 1, 0.0429, 0, 0, 0, 1}, []int{1, 4, 4}},
		{"probabilities", []int{3}, []float64{0.5, 0.25, 0.25}, []int{3}},
		{"empty poses", []int{0, 4, 4}, []float64{}, []int{0}},
		{"empty probabilities", []int{0}, []float64{}, []int{0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			arr, err := NewArray(tc.shape, tc.data)
			test.That(t, err, test.ShouldBeNil)

			path := filepath.Join(t.TempDir(), "arr.npy")
			test.That(t, arr.WriteFile(path), test.ShouldBeNil)

			got, err := ReadFile(path)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.Shape, test.ShouldResemble, tc.want)
			test.That(t, got.Data, test.ShouldResemble, tc.data)
		})
	}
}

func TestReadVersionOne(t *testing.T) {
	body := make([]byte, 16)
	binary.LittleEndian.PutUint64(body, 0x3ff0000000000000)
	binary.LittleEndian.PutUint64(body[8:], 0x4000000000000000)
	raw := rawFile("{'descr': '<f8', 'fortran_order': False, 'shape': (2,), }      \n", body)

	got, err := Read(bytes.NewReader(raw))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Shape, test.ShouldResemble, []int{2})
	test.That(t, got.Data, test.ShouldResemble, []float64{1, 2})
}

func TestErrors(t *testing.T) {
	t.Run("data does not fill shape", func(t *testing.T) {
		_, err := NewArray([]int{2, 2}, []float64{1, 2, 3})
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("negative dimension", func(t *testing.T) {
		_, err := NewArray([]int{-1, 4}, nil)
		test.That(t, err, test.ShouldNotBeNil)

		raw := rawFile("{'descr': '<f8', 'fortran_order': False, 'shape': (-2, 4), }\n", nil)
		_, err = Read(bytes.NewReader(raw))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "negative dimension")
	})

	t.Run("oversized shape", func(t *testing.T) {
		raw := rawFile("{'descr': '<f8', 'fortran_order': False, 'shape': (65536, 65536), }\n", nil)
		_, err := Read(bytes.NewReader(raw))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("unsupported dtype", func(t *testing.T) {
		raw := rawFile("{'descr': '<i4', 'fortran_order': False, 'shape': (1,), }\n", make([]byte, 4))
		_, err := Read(bytes.NewReader(raw))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("fortran order", func(t *testing.T) {
		raw := rawFile("{'descr': '<f8', 'fortran_order': True, 'shape': (1,), }\n", make([]byte, 8))
		_, err := Read(bytes.NewReader(raw))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("header without newline", func(t *testing.T) {
		raw := rawFile("{'descr': '<f8'}", nil)
		_, err := Read(bytes.NewReader(raw))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("not npy", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte("not a numpy file at all")))
		test.That(t, err, test.ShouldNotBeNil)

		_, err = Read(bytes.NewReader([]byte("\x93NU")))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("truncated data", func(t *testing.T) {
		arr, err := NewArray([]int{4}, []float64{1, 2, 3, 4})
		test.That(t, err, test.ShouldBeNil)
		var buf bytes.Buffer
		test.That(t, arr.Write(&buf), test.ShouldBeNil)

		_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
		test.That(t, err, test.ShouldNotBeNil)
		_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()-8]))
		test.That(t, err, test.ShouldNotBeNil)
	})
}
