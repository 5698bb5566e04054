package nodes

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/kernel"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// Combiners treat a missing operand as absent, not as an error. Union
// and intersect with a single live side pass that side through;
// difference with nothing to subtract passes a through.

// Union merges two solids.
type Union struct {
	kernel kernel.Kernel
}

var _ graph.Behavior = (*Union)(nil)

// NewUnion returns a union behavior.
func NewUnion(k kernel.Kernel) *Union {
	return &Union{kernel: k}
}

func (u *Union) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "union",
		Label: "Union",
		Inputs: []graph.Slot{
			{Name: "a", Type: value.SolidType},
			{Name: "b", Type: value.SolidType},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (u *Union) Compute(out int, in []cty.Value) (cty.Value, error) {
	a, okA := value.AsSolid(in[0])
	b, okB := value.AsSolid(in[1])
	switch {
	case okA && okB:
		return value.SolidVal(u.kernel.Union(a, b)), nil
	case okA:
		return in[0], nil
	case okB:
		return in[1], nil
	}
	return cty.NilVal, nil
}

func (u *Union) ExportData() (json.RawMessage, error) {
	return nil, nil
}

func (u *Union) RestoreData(data json.RawMessage) error {
	return nil
}

// Difference subtracts b from a.
type Difference struct {
	kernel kernel.Kernel
}

var _ graph.Behavior = (*Difference)(nil)

// NewDifference returns a difference behavior.
func NewDifference(k kernel.Kernel) *Difference {
	return &Difference{kernel: k}
}

func (d *Difference) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "difference",
		Label: "Difference",
		Inputs: []graph.Slot{
			{Name: "a", Type: value.SolidType},
			{Name: "b", Type: value.SolidType},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (d *Difference) Compute(out int, in []cty.Value) (cty.Value, error) {
	a, okA := value.AsSolid(in[0])
	if !okA {
		return cty.NilVal, nil
	}
	b, okB := value.AsSolid(in[1])
	if !okB {
		return in[0], nil
	}
	return value.SolidVal(d.kernel.Difference(a, b)), nil
}

func (d *Difference) ExportData() (json.RawMessage, error) {
	return nil, nil
}

func (d *Difference) RestoreData(data json.RawMessage) error {
	return nil
}

// Intersect keeps the overlap of two solids.
type Intersect struct {
	kernel kernel.Kernel
}

var _ graph.Behavior = (*Intersect)(nil)

// NewIntersect returns an intersect behavior.
func NewIntersect(k kernel.Kernel) *Intersect {
	return &Intersect{kernel: k}
}

func (i *Intersect) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "intersect",
		Label: "Intersect",
		Inputs: []graph.Slot{
			{Name: "a", Type: value.SolidType},
			{Name: "b", Type: value.SolidType},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (i *Intersect) Compute(out int, in []cty.Value) (cty.Value, error) {
	a, okA := value.AsSolid(in[0])
	b, okB := value.AsSolid(in[1])
	switch {
	case okA && okB:
		return value.SolidVal(i.kernel.Intersection(a, b)), nil
	case okA:
		return in[0], nil
	case okB:
		return in[1], nil
	}
	return cty.NilVal, nil
}

func (i *Intersect) ExportData() (json.RawMessage, error) {
	return nil, nil
}

func (i *Intersect) RestoreData(data json.RawMessage) error {
	return nil
}
