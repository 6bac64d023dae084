package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// massProperties holds the volume integrals of a closed triangulated surface at unit density.
type massProperties struct {
	volume     float64
	centerMass r3.Vector
	// second moments about the origin: x^2, y^2, z^2, xy, yz, zx
	xx, yy, zz, xy, yz, zx float64
}

// massProperties integrates 1, x, y, z, x^2, y^2, z^2, xy, yz and zx over the enclosed solid
// using the divergence theorem on every face. See D. Eberly, "Polyhedral Mass Properties".
func (m *Mesh) massProperties() massProperties {
	var integral [10]float64
	for _, f := range m.faces {
		p0, p1, p2 := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
		d := p1.Sub(p0).Cross(p2.Sub(p0))

		f1x, f2x, f3x, g0x, g1x, g2x := subexpressions(p0.X, p1.X, p2.X)
		_, f2y, f3y, g0y, g1y, g2y := subexpressions(p0.Y, p1.Y, p2.Y)
		_, f2z, f3z, g0z, g1z, g2z := subexpressions(p0.Z, p1.Z, p2.Z)

		integral[0] += d.X * f1x
		integral[1] += d.X * f2x
		integral[2] += d.Y * f2y
		integral[3] += d.Z * f2z
		integral[4] += d.X * f3x
		integral[5] += d.Y * f3y
		integral[6] += d.Z * f3z
		integral[7] += d.X * (p0.Y*g0x + p1.Y*g1x + p2.Y*g2x)
		integral[8] += d.Y * (p0.Z*g0y + p1.Z*g1y + p2.Z*g2y)
		integral[9] += d.Z * (p0.X*g0z + p1.X*g1z + p2.X*g2z)
	}

	integral[0] /= 6
	for i := 1; i <= 3; i++ {
		integral[i] /= 24
	}
	for i := 4; i <= 6; i++ {
		integral[i] /= 60
	}
	for i := 7; i <= 9; i++ {
		integral[i] /= 120
	}

	props := massProperties{
		volume: integral[0],
		xx:     integral[4],
		yy:     integral[5],
		zz:     integral[6],
		xy:     integral[7],
		yz:     integral[8],
		zx:     integral[9],
	}
	if props.volume != 0 {
		props.centerMass = r3.Vector{X: integral[1], Y: integral[2], Z: integral[3]}.Mul(1 / props.volume)
	}
	return props
}

// inertia returns the inertia tensor about the center of mass for the given density.
func (p massProperties) inertia(density float64) *mat.SymDense {
	mass := p.volume
	cm := p.centerMass
	ixx := p.yy + p.zz - mass*(cm.Y*cm.Y+cm.Z*cm.Z)
	iyy := p.xx + p.zz - mass*(cm.Z*cm.Z+cm.X*cm.X)
	izz := p.xx + p.yy - mass*(cm.X*cm.X+cm.Y*cm.Y)
	ixy := -(p.xy - mass*cm.X*cm.Y)
	iyz := -(p.yz - mass*cm.Y*cm.Z)
	ixz := -(p.zx - mass*cm.Z*cm.X)

	tensor := mat.NewSymDense(3, []float64{
		ixx, ixy, ixz,
		ixy, iyy, iyz,
		ixz, iyz, izz,
	})
	tensor.ScaleSym(density, tensor)
	return tensor
}

func subexpressions(w0, w1, w2 float64) (f1, f2, f3, g0, g1, g2 float64) {
	temp0 := w0 + w1
	f1 = temp0 + w2
	temp1 := w0 * w0
	temp2 := temp1 + w1*temp0
	f2 = temp2 + w2*f1
	f3 = w0*temp1 + w1*temp2 + w2*f2
	g0 = f2 + w0*(f1+w0)
	g1 = f2 + w1*(f1+w1)
	g2 = f2 + w2*(f1+w2)
	return f1, f2, f3, g0, g1, g2
}
