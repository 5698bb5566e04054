package nodes

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/kernel"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// Box emits an axis-aligned box centered at the origin. Dimensions come
// from the x, y, z parameters unless a vector is wired into the size
// input.
type Box struct {
	kernel kernel.Kernel

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var (
	_ graph.Behavior      = (*Box)(nil)
	_ graph.DataValidator = (*Box)(nil)
)

// NewBox returns a box behavior with a 10 unit cube as default.
func NewBox(k kernel.Kernel) *Box {
	return &Box{kernel: k, X: 10, Y: 10, Z: 10}
}

func (b *Box) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "box",
		Label: "Box",
		Inputs: []graph.Slot{
			{Name: "size", Type: value.Vec3Type},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (b *Box) Compute(out int, in []cty.Value) (cty.Value, error) {
	x, y, z := b.X, b.Y, b.Z
	if v, ok := value.AsVec3(in[0]); ok {
		x, y, z = v[0], v[1], v[2]
	}
	if x <= 0 || y <= 0 || z <= 0 {
		return cty.NilVal, fmt.Errorf("box size must be positive, got %g x %g x %g", x, y, z)
	}
	return value.SolidVal(b.kernel.Box(x, y, z)), nil
}

func (b *Box) ExportData() (json.RawMessage, error) {
	return marshalData(b)
}

func (b *Box) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, b)
}

func (b *Box) ValidateData() []string {
	var findings []string
	if b.X <= 0 || b.Y <= 0 || b.Z <= 0 {
		findings = append(findings, "box size must be positive")
	}
	return findings
}

// Cylinder emits a cylinder centered at the origin with its axis along Z.
type Cylinder struct {
	kernel kernel.Kernel

	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
}

var (
	_ graph.Behavior      = (*Cylinder)(nil)
	_ graph.DataValidator = (*Cylinder)(nil)
)

// NewCylinder returns a cylinder behavior with height 10 and radius 5.
func NewCylinder(k kernel.Kernel) *Cylinder {
	return &Cylinder{kernel: k, Height: 10, Radius: 5}
}

func (c *Cylinder) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "cylinder",
		Label: "Cylinder",
		Inputs: []graph.Slot{
			{Name: "height", Type: cty.Number},
			{Name: "radius", Type: cty.Number},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (c *Cylinder) Compute(out int, in []cty.Value) (cty.Value, error) {
	height, radius := c.Height, c.Radius
	if f, ok := value.AsNumber(in[0]); ok {
		height = f
	}
	if f, ok := value.AsNumber(in[1]); ok {
		radius = f
	}
	if height <= 0 || radius <= 0 {
		return cty.NilVal, fmt.Errorf("cylinder height and radius must be positive, got %g and %g", height, radius)
	}
	return value.SolidVal(c.kernel.Cylinder(height, radius)), nil
}

func (c *Cylinder) ExportData() (json.RawMessage, error) {
	return marshalData(c)
}

func (c *Cylinder) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, c)
}

func (c *Cylinder) ValidateData() []string {
	var findings []string
	if c.Height <= 0 {
		findings = append(findings, "cylinder height must be positive")
	}
	if c.Radius <= 0 {
		findings = append(findings, "cylinder radius must be positive")
	}
	return findings
}

// Sphere emits a sphere centered at the origin.
type Sphere struct {
	kernel kernel.Kernel

	Radius float64 `json:"radius"`
}

var (
	_ graph.Behavior      = (*Sphere)(nil)
	_ graph.DataValidator = (*Sphere)(nil)
)

// NewSphere returns a sphere behavior with radius 5.
func NewSphere(k kernel.Kernel) *Sphere {
	return &Sphere{kernel: k, Radius: 5}
}

func (s *Sphere) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "sphere",
		Label: "Sphere",
		Inputs: []graph.Slot{
			{Name: "radius", Type: cty.Number},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (s *Sphere) Compute(out int, in []cty.Value) (cty.Value, error) {
	radius := s.Radius
	if f, ok := value.AsNumber(in[0]); ok {
		radius = f
	}
	if radius <= 0 {
		return cty.NilVal, fmt.Errorf("sphere radius must be positive, got %g", radius)
	}
	return value.SolidVal(s.kernel.Sphere(radius)), nil
}

func (s *Sphere) ExportData() (json.RawMessage, error) {
	return marshalData(s)
}

func (s *Sphere) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, s)
}

func (s *Sphere) ValidateData() []string {
	var findings []string
	if s.Radius <= 0 {
		findings = append(findings, "sphere radius must be positive")
	}
	return findings
}
