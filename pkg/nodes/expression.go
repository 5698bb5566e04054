package nodes

import (
	"encoding/json"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/expr"
	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// Expression computes a scalar from a user-written Lisp expression.
// Wired inputs are bound as the variables a, b and c; an unwired input
// binds 0. An empty expression produces no value, a broken one is a
// compute error.
type Expression struct {
	engine *expr.Engine

	Source string `json:"expression"`
}

var (
	_ graph.Behavior      = (*Expression)(nil)
	_ graph.DataValidator = (*Expression)(nil)
)

// NewExpression returns an expression behavior with empty source.
func NewExpression() *Expression {
	return &Expression{engine: expr.New()}
}

func (e *Expression) Definition() graph.Definition {
	return graph.Definition{
		Tag:   "expression",
		Label: "Expression",
		Inputs: []graph.Slot{
			{Name: "a", Type: cty.Number},
			{Name: "b", Type: cty.Number},
			{Name: "c", Type: cty.Number},
		},
		Outputs: []graph.Slot{
			{Name: "value", Type: cty.Number},
		},
	}
}

func (e *Expression) Compute(out int, in []cty.Value) (cty.Value, error) {
	if strings.TrimSpace(e.Source) == "" {
		return cty.NilVal, nil
	}
	vars := make(map[string]float64, len(in))
	for i, name := range [...]string{"a", "b", "c"} {
		vars[name] = 0
		if f, ok := value.AsNumber(in[i]); ok {
			vars[name] = f
		}
	}
	result, err := e.engine.Eval(e.Source, vars)
	if err != nil {
		return cty.NilVal, err
	}
	return value.NumberVal(result), nil
}

func (e *Expression) ExportData() (json.RawMessage, error) {
	return marshalData(e)
}

func (e *Expression) RestoreData(data json.RawMessage) error {
	return unmarshalData(data, e)
}

func (e *Expression) ValidateData() []string {
	var findings []string
	if strings.TrimSpace(e.Source) == "" {
		findings = append(findings, "expression source is empty")
	}
	return findings
}
