package nodes

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// Output is the template terminal. It passes its solid input through
// unchanged, making whatever reaches it the value Resolve returns.
type Output struct{}

var _ graph.Behavior = (*Output)(nil)

// NewOutput returns the terminal behavior.
func NewOutput() *Output {
	return &Output{}
}

func (o *Output) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "output",
		Label: "Output",
		Role:  graph.RoleOutput,
		Inputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
		Outputs: []graph.Slot{
			{Name: "solid", Type: value.SolidType},
		},
	}
}

func (o *Output) Compute(out int, in []cty.Value) (cty.Value, error) {
	return in[0], nil
}

func (o *Output) ExportData() (json.RawMessage, error) {
	return nil, nil
}

func (o *Output) RestoreData(data json.RawMessage) error {
	return nil
}
