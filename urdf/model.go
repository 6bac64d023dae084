// Package urdf builds and reads the single link URDF documents that describe a converted mesh asset.
package urdf

import (
	"encoding/xml"

	"gonum.org/v1/gonum/mat"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

// Robot is the root element of a URDF document.
type Robot struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []Link   `xml:"link"`
}

// Link is a rigid body with its inertial, visual and collision descriptions.
type Link struct {
	XMLName   xml.Name   `xml:"link"`
	Name      string     `xml:"name,attr"`
	Inertial  *Inertial  `xml:"inertial,omitempty"`
	Visual    *Visual    `xml:"visual,omitempty"`
	Collision *Collision `xml:"collision,omitempty"`
}

// Inertial holds the mass and the inertia tensor about the link origin.
type Inertial struct {
	XMLName xml.Name `xml:"inertial"`
	Mass    Mass     `xml:"mass"`
	Inertia Inertia  `xml:"inertia"`
}

// Mass is the mass of a link in kilograms.
type Mass struct {
	Value string `xml:"value,attr"`
}

// Inertia is the upper triangle of a symmetric inertia tensor.
type Inertia struct {
	Ixx string `xml:"ixx,attr"`
	Ixy string `xml:"ixy,attr"`
	Ixz string `xml:"ixz,attr"`
	Iyy string `xml:"iyy,attr"`
	Iyz string `xml:"iyz,attr"`
	Izz string `xml:"izz,attr"`
}

// Visual is the geometry used to render a link.
type Visual struct {
	XMLName  xml.Name `xml:"visual"`
	Origin   Origin   `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Collision is the geometry used for contact.
type Collision struct {
	XMLName  xml.Name `xml:"collision"`
	Origin   Origin   `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Origin is an offset from the link frame.
type Origin struct {
	XYZ string `xml:"xyz,attr"` // "x y z" format, in meters
	RPY string `xml:"rpy,attr"` // Fixed frame angle "r p y" format, in radians
}

// Geometry wraps the shape of a visual or collision element.
type Geometry struct {
	Mesh *MeshRef `xml:"mesh,omitempty"`
}

// MeshRef points at a mesh file.
type MeshRef struct {
	Filename string `xml:"filename,attr"`
	Scale    string `xml:"scale,attr,omitempty"` // "x y z" format
}

// identityOrigin places geometry at the link frame.
var identityOrigin = Origin{XYZ: "0 0 0", RPY: "0 0 0"}

// NewRobot creates a document with one link named name. The link carries mass and the upper
// triangle of inertia, and its visual and collision elements both reference meshFile at unit
// scale.
func NewRobot(name string, mass float64, inertia mat.Symmetric, meshFile string) *Robot {
	geometry := func() Geometry {
		return Geometry{Mesh: &MeshRef{Filename: meshFile, Scale: "1 1 1"}}
	}
	return &Robot{
		Name: name,
		Links: []Link{{
			Name: name,
			Inertial: &Inertial{
				Mass: Mass{Value: FormatFloat(mass)},
				Inertia: Inertia{
					Ixx: FormatFloat(inertia.At(0, 0)),
					Ixy: FormatFloat(inertia.At(0, 1)),
					Ixz: FormatFloat(inertia.At(0, 2)),
					Iyy: FormatFloat(inertia.At(1, 1)),
					Iyz: FormatFloat(inertia.At(1, 2)),
					Izz: FormatFloat(inertia.At(2, 2)),
				},
			},
			Visual:    &Visual{Origin: identityOrigin, Geometry: geometry()},
			Collision: &Collision{Origin: identityOrigin, Geometry: geometry()},
		}},
	}
}

// MeshFilenames returns the mesh filename of every visual and collision element in link order.
func (r *Robot) MeshFilenames() []string {
	var names []string
	for _, l := range r.Links {
		if l.Visual != nil && l.Visual.Geometry.Mesh != nil {
			names = append(names, l.Visual.Geometry.Mesh.Filename)
		}
		if l.Collision != nil && l.Collision.Geometry.Mesh != nil {
			names = append(names, l.Collision.Geometry.Mesh.Filename)
		}
	}
	return names
}
