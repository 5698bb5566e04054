// Package value defines the typed values that flow between node slots.
// Slot values are cty values: numbers and vectors use cty's native types,
// kernel solids travel inside a capsule type. The zero value cty.NilVal
// is the "no value" sentinel that propagates through computes when an
// input is unconnected or upstream produced nothing.
package value

import (
	"reflect"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/kernel"
)

// solidCapsule is the native payload behind SolidType. The capsule keeps
// kernel handles opaque to cty while letting them ride through slots.
type solidCapsule struct {
	solid kernel.Solid
}

// SolidType is the slot type for kernel solids.
var SolidType = cty.Capsule("solid", reflect.TypeOf(solidCapsule{}))

// Vec3Type is the slot type for 3D vectors.
var Vec3Type = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
	"z": cty.Number,
})

// IsNoValue reports whether v is the propagating "no value" sentinel.
func IsNoValue(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

// SolidVal wraps a kernel solid as a slot value.
func SolidVal(s kernel.Solid) cty.Value {
	return cty.CapsuleVal(SolidType, &solidCapsule{solid: s})
}

// AsSolid extracts the kernel solid from a slot value. The second return
// is false when v carries no solid.
func AsSolid(v cty.Value) (kernel.Solid, bool) {
	if v == cty.NilVal || v.IsNull() {
		return nil, false
	}
	if !v.Type().Equals(SolidType) {
		return nil, false
	}
	return v.EncapsulatedValue().(*solidCapsule).solid, true
}

// Vec3Val builds a vector slot value.
func Vec3Val(x, y, z float64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberFloatVal(x),
		"y": cty.NumberFloatVal(y),
		"z": cty.NumberFloatVal(z),
	})
}

// AsVec3 extracts a vector from a slot value.
func AsVec3(v cty.Value) ([3]float64, bool) {
	if v == cty.NilVal || v.IsNull() {
		return [3]float64{}, false
	}
	if !v.Type().Equals(Vec3Type) {
		return [3]float64{}, false
	}
	var out [3]float64
	for i, name := range [...]string{"x", "y", "z"} {
		f, _ := v.GetAttr(name).AsBigFloat().Float64()
		out[i] = f
	}
	return out, true
}

// NumberVal builds a numeric slot value.
func NumberVal(f float64) cty.Value {
	return cty.NumberFloatVal(f)
}

// AsNumber extracts a float from a numeric slot value.
func AsNumber(v cty.Value) (float64, bool) {
	if v == cty.NilVal || v.IsNull() {
		return 0, false
	}
	if !v.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}
