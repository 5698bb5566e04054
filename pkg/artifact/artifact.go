// Package artifact turns resolved template values into triangle meshes
// using a geometry kernel. One mesh is produced per solid.
package artifact

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/kernel"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// DefaultName is used when the caller gives no artifact name.
const DefaultName = "solid"

// Meshes tessellates a resolved value. A single solid yields one mesh
// carrying name; a tuple of solids yields one mesh per element, numbered
// from the second onward. No value yields no meshes, which is how an
// unfinished template renders.
func Meshes(v cty.Value, k kernel.Kernel, name string) ([]*kernel.Mesh, error) {
	if name == "" {
		name = DefaultName
	}
	if value.IsNoValue(v) {
		return nil, nil
	}

	if s, ok := value.AsSolid(v); ok {
		m, err := toMesh(k, s, name)
		if err != nil {
			return nil, err
		}
		return []*kernel.Mesh{m}, nil
	}

	if v.Type().IsTupleType() {
		var meshes []*kernel.Mesh
		i := 0
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if value.IsNoValue(ev) {
				continue
			}
			s, ok := value.AsSolid(ev)
			if !ok {
				return nil, fmt.Errorf("artifact: tuple element %d is %s, not a solid", i, ev.Type().FriendlyName())
			}
			i++
			elemName := name
			if i > 1 {
				elemName = fmt.Sprintf("%s.%d", name, i)
			}
			m, err := toMesh(k, s, elemName)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, m)
		}
		return meshes, nil
	}

	return nil, fmt.Errorf("artifact: cannot mesh %s value", v.Type().FriendlyName())
}

func toMesh(k kernel.Kernel, s kernel.Solid, name string) (*kernel.Mesh, error) {
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("artifact: meshing %q: %w", name, err)
	}
	m.Name = name
	return m, nil
}
