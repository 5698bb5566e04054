package graph

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/zclconf/go-cty/cty"
)

// Test behaviors. Compute counters make cache behavior observable.

// constBehavior emits a fixed number.
type constBehavior struct {
	Value    float64 `json:"value"`
	computes int
}

func newConst(v float64) *constBehavior { return &constBehavior{Value: v} }

func (b *constBehavior) Definition() Definition {
	return Definition{
		Tag:     "const",
		Label:   "Constant",
		Outputs: []Slot{{Name: "value", Type: cty.Number}},
	}
}

func (b *constBehavior) Compute(out int, in []cty.Value) (cty.Value, error) {
	b.computes++
	return cty.NumberFloatVal(b.Value), nil
}

func (b *constBehavior) ExportData() (json.RawMessage, error) {
	return json.Marshal(b)
}

func (b *constBehavior) RestoreData(data json.RawMessage) error {
	return json.Unmarshal(data, b)
}

func (b *constBehavior) ExposedVariables() []ExposedVariable {
	return []ExposedVariable{{Name: "value", Type: cty.Number}}
}

// sumBehavior adds its two numeric inputs. Missing inputs count as zero
// unless strict, in which case the sum emits no value.
type sumBehavior struct {
	strict   bool
	computes int
}

func (b *sumBehavior) Definition() Definition {
	return Definition{
		Tag:   "sum",
		Label: "Sum",
		Inputs: []Slot{
			{Name: "a", Type: cty.Number},
			{Name: "b", Type: cty.Number},
		},
		Outputs: []Slot{{Name: "sum", Type: cty.Number}},
	}
}

func (b *sumBehavior) Compute(out int, in []cty.Value) (cty.Value, error) {
	b.computes++
	total := 0.0
	for _, v := range in {
		if v == cty.NilVal {
			if b.strict {
				return cty.NilVal, nil
			}
			continue
		}
		f, _ := v.AsBigFloat().Float64()
		total += f
	}
	return cty.NumberFloatVal(total), nil
}

func (b *sumBehavior) ExportData() (json.RawMessage, error) { return nil, nil }
func (b *sumBehavior) RestoreData(json.RawMessage) error    { return nil }

// terminalBehavior is an output-role pass-through of its single input.
type terminalBehavior struct {
	computes int
	rewired  int
}

func (b *terminalBehavior) Definition() Definition {
	return Definition{
		Tag:     "terminal",
		Label:   "Output",
		Role:    RoleOutput,
		Inputs:  []Slot{{Name: "result", Type: cty.Number}},
		Outputs: []Slot{{Name: "result", Type: cty.Number}},
	}
}

func (b *terminalBehavior) Compute(out int, in []cty.Value) (cty.Value, error) {
	b.computes++
	return in[0], nil
}

func (b *terminalBehavior) ExportData() (json.RawMessage, error) { return nil, nil }
func (b *terminalBehavior) RestoreData(json.RawMessage) error    { return nil }
func (b *terminalBehavior) ConnectionChanged()                   { b.rewired++ }

// failBehavior always errors from Compute.
type failBehavior struct{}

func (failBehavior) Definition() Definition {
	return Definition{
		Tag:     "fail",
		Label:   "Fail",
		Outputs: []Slot{{Name: "value", Type: cty.Number}},
	}
}

func (failBehavior) Compute(int, []cty.Value) (cty.Value, error) {
	return cty.NilVal, fmt.Errorf("boom")
}

func (failBehavior) ExportData() (json.RawMessage, error) { return nil, nil }
func (failBehavior) RestoreData(json.RawMessage) error    { return nil }

// blobCapsule is a throwaway capsule type for solid-like slot tests.
var blobCapsule = cty.Capsule("blob", reflect.TypeOf(struct{}{}))

// sinkBehavior consumes a capsule input and reports fixed parameter
// findings through DataValidator.
type sinkBehavior struct {
	findings []string
}

func (b *sinkBehavior) Definition() Definition {
	return Definition{
		Tag:     "sink",
		Label:   "Sink",
		Inputs:  []Slot{{Name: "blob", Type: blobCapsule}},
		Outputs: []Slot{{Name: "value", Type: cty.Number}},
	}
}

func (b *sinkBehavior) Compute(out int, in []cty.Value) (cty.Value, error) {
	return cty.NumberFloatVal(0), nil
}

func (b *sinkBehavior) ExportData() (json.RawMessage, error) { return nil, nil }
func (b *sinkBehavior) RestoreData(json.RawMessage) error    { return nil }
func (b *sinkBehavior) ValidateData() []string               { return b.findings }

// testRegistry resolves every tag the test behaviors declare.
func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	factories := []Factory{
		func() Behavior { return newConst(0) },
		func() Behavior { return &sumBehavior{} },
		func() Behavior { return &terminalBehavior{} },
	}
	for _, f := range factories {
		if err := reg.Register(f); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	return reg
}
