package nodes

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// Number emits a constant scalar. The value is published to the host
// property system, so a scene can override it without touching the
// template.
type Number struct {
	Value float64 `json:"value"`
}

var (
	_ graph.Behavior        = (*Number)(nil)
	_ graph.VariableExposer = (*Number)(nil)
)

// NewNumber returns a scalar input behavior with value 0.
func NewNumber() *Number {
	return &Number{}
}

func (n *Number) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "number",
		Label: "Number",
		Outputs: []graph.Slot{
			{Name: "value", Type: cty.Number},
		},
	}
}

func (n *Number) Compute(out int, in []cty.Value) (cty.Value, error) {
	return value.NumberVal(n.Value), nil
}

func (n *Number) ExportData() (json.RawMessage, error) {
	return marshalData(n)
}

func (n *Number) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, n)
}

func (n *Number) ExposedVariables() []graph.ExposedVariable {
	return []graph.ExposedVariable{
		{Name: "value", Type: cty.Number},
	}
}

// Vector assembles a 3D vector. Components come from the x, y and z
// parameters unless scalars are wired into the matching inputs.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

var (
	_ graph.Behavior        = (*Vector)(nil)
	_ graph.VariableExposer = (*Vector)(nil)
)

// NewVector returns a vector input behavior at the origin.
func NewVector() *Vector {
	return &Vector{}
}

func (v *Vector) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "vector",
		Label: "Vector",
		Inputs: []graph.Slot{
			{Name: "x", Type: cty.Number},
			{Name: "y", Type: cty.Number},
			{Name: "z", Type: cty.Number},
		},
		Outputs: []graph.Slot{
			{Name: "vector", Type: value.Vec3Type},
		},
	}
}

func (v *Vector) Compute(out int, in []cty.Value) (cty.Value, error) {
	x, y, z := v.X, v.Y, v.Z
	if f, ok := value.AsNumber(in[0]); ok {
		x = f
	}
	if f, ok := value.AsNumber(in[1]); ok {
		y = f
	}
	if f, ok := value.AsNumber(in[2]); ok {
		z = f
	}
	return value.Vec3Val(x, y, z), nil
}

func (v *Vector) ExportData() (json.RawMessage, error) {
	return marshalData(v)
}

func (v *Vector) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, v)
}

func (v *Vector) ExposedVariables() []graph.ExposedVariable {
	return []graph.ExposedVariable{
		{Name: "x", Type: cty.Number},
		{Name: "y", Type: cty.Number},
		{Name: "z", Type: cty.Number},
	}
}
