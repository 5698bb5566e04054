// Package nodes provides the built-in node catalog: scalar and vector
// inputs, solid primitives, transforms, boolean combiners, an expression
// node, and the template output terminal. Behaviors hold their parameters
// as exported fields with JSON tags, so persistence is plain marshalling;
// geometry nodes additionally hold the kernel they were registered with.
package nodes

import (
	"encoding/json"

	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/kernel"
)

// Register installs the full catalog on reg. Geometry nodes capture k
// for primitive construction, booleans and transforms.
func Register(reg *graph.Registry, k kernel.Kernel) error {
	factories := []graph.Factory{
		func() graph.Behavior { return NewOutput() },
		func() graph.Behavior { return NewNumber() },
		func() graph.Behavior { return NewVector() },
		func() graph.Behavior { return NewBox(k) },
		func() graph.Behavior { return NewCylinder(k) },
		func() graph.Behavior { return NewSphere(k) },
		func() graph.Behavior { return NewTranslate(k) },
		func() graph.Behavior { return NewRotate(k) },
		func() graph.Behavior { return NewScale(k) },
		func() graph.Behavior { return NewUnion(k) },
		func() graph.Behavior { return NewDifference(k) },
		func() graph.Behavior { return NewIntersect(k) },
		func() graph.Behavior { return NewExpression() },
	}
	for _, f := range factories {
		if err := reg.Register(f); err != nil {
			return err
		}
	}
	return nil
}

// marshalData serializes a behavior's parameter struct. Unexported
// fields, the kernel handle among them, never reach the document.
func marshalData(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// unmarshalData restores parameters from a document blob. An absent blob
// keeps the behavior's defaults.
func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
