package nodes

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/kernel"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// Transforms pass "no value" through: with nothing wired into the solid
// input there is nothing to move, which is not an error.

// Translate moves a solid by an offset. The offset comes from the x, y,
// z parameters unless a vector is wired into the offset input.
type Translate struct {
	kernel kernel.Kernel

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var _ graph.Behavior = (*Translate)(nil)

// NewTranslate returns a translate behavior with zero offset.
func NewTranslate(k kernel.Kernel) *Translate {
	return &Translate{kernel: k}
}

func (t *Translate) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "translate",
		Label: "Translate",
		Inputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
			{Name: "offset", Type: value.Vec3Type},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (t *Translate) Compute(out int, in []cty.Value) (cty.Value, error) {
	s, ok := value.AsSolid(in[0])
	if !ok {
		return cty.NilVal, nil
	}
	x, y, z := t.X, t.Y, t.Z
	if v, ok := value.AsVec3(in[1]); ok {
		x, y, z = v[0], v[1], v[2]
	}
	return value.SolidVal(t.kernel.Translate(s, x, y, z)), nil
}

func (t *Translate) ExportData() (json.RawMessage, error) {
	return marshalData(t)
}

func (t *Translate) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, t)
}

// Rotate turns a solid by Euler angles in degrees, applied X then Y
// then Z. Angles come from the parameters unless a vector is wired into
// the angles input.
type Rotate struct {
	kernel kernel.Kernel

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var _ graph.Behavior = (*Rotate)(nil)

// NewRotate returns a rotate behavior with zero angles.
func NewRotate(k kernel.Kernel) *Rotate {
	return &Rotate{kernel: k}
}

func (r *Rotate) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "rotate",
		Label: "Rotate",
		Inputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
			{Name: "angles", Type: value.Vec3Type},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (r *Rotate) Compute(out int, in []cty.Value) (cty.Value, error) {
	s, ok := value.AsSolid(in[0])
	if !ok {
		return cty.NilVal, nil
	}
	x, y, z := r.X, r.Y, r.Z
	if v, ok := value.AsVec3(in[1]); ok {
		x, y, z = v[0], v[1], v[2]
	}
	return value.SolidVal(r.kernel.Rotate(s, x, y, z)), nil
}

func (r *Rotate) ExportData() (json.RawMessage, error) {
	return marshalData(r)
}

func (r *Rotate) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, r)
}

// Scale grows or shrinks a solid uniformly about the origin. The factor
// comes from the parameter unless a scalar is wired into the factor
// input.
type Scale struct {
	kernel kernel.Kernel

	Factor float64 `json:"factor"`
}

var (
	_ graph.Behavior      = (*Scale)(nil)
	_ graph.DataValidator = (*Scale)(nil)
)

// NewScale returns a scale behavior with factor 1.
func NewScale(k kernel.Kernel) *Scale {
	return &Scale{kernel: k, Factor: 1}
}

func (s *Scale) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "scale",
		Label: "Scale",
		Inputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
			{Name: "factor", Type: cty.Number},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (s *Scale) Compute(out int, in []cty.Value) (cty.Value, error) {
	solid, ok := value.AsSolid(in[0])
	if !ok {
		return cty.NilVal, nil
	}
	factor := s.Factor
	if f, ok := value.AsNumber(in[1]); ok {
		factor = f
	}
	return value.SolidVal(s.kernel.Scale(solid, factor)), nil
}

func (s *Scale) ExportData() (json.RawMessage, error) {
	return marshalData(s)
}

func (s *Scale) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, s)
}

func (s *Scale) ValidateData() []string {
	var findings []string
	if s.Factor == 0 {
		findings = append(findings, "scale factor of zero collapses the solid")
	}
	return findings
}
