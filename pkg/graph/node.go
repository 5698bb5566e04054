package graph

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Role tags a node's part in the template.
type Role int

const (
	RoleDefault Role = iota // ordinary processing node
	RoleOutput              // the template's single terminal
)

func (r Role) String() string {
	switch r {
	case RoleDefault:
		return "default"
	case RoleOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Slot describes one typed input or output position on a node kind.
type Slot struct {
	Name string
	Type cty.Type
}

// Definition is the static description of a node kind: registry tag,
// palette label, role, and slot layout.
type Definition struct {
	Tag     string
	Label   string
	Role    Role
	Inputs  []Slot
	Outputs []Slot
}

// Behavior is the capability set a node kind implements. The template
// drives behaviors through this interface and never inspects concrete
// types.
type Behavior interface {
	// Definition returns the static description. It must not change over
	// the life of the behavior.
	Definition() Definition

	// Compute produces the value of output slot out. Inputs arrive in
	// input slot order; an unconnected or unproductive input is
	// cty.NilVal. Returning cty.NilVal means "no value" and propagates
	// downstream without being an error.
	Compute(out int, in []cty.Value) (cty.Value, error)

	// ExportData and RestoreData round-trip the node's parameters as an
	// opaque JSON blob. ExportData may return nil when there is nothing
	// to persist.
	ExportData() (json.RawMessage, error)
	RestoreData(data json.RawMessage) error
}

// ConnectionObserver is implemented by behaviors that want to know when
// one of their node's input slots is rewired.
type ConnectionObserver interface {
	ConnectionChanged()
}

// ExposedVariable names a host-overridable parameter.
type ExposedVariable struct {
	Name string
	Type cty.Type
}

// VariableExposer is implemented by behaviors that publish parameters to
// the host property system.
type VariableExposer interface {
	ExposedVariables() []ExposedVariable
}

// Node is one processing unit in a template. Nodes are created and owned
// by a template; the zero value is not usable.
type Node struct {
	name     string
	def      Definition
	behavior Behavior
	editor   json.RawMessage

	// Per-output-slot memo. valid[i] guards cache[i].
	cache []cty.Value
	valid []bool

	owner *Template
}

func newNode(name string, b Behavior) *Node {
	def := b.Definition()
	return &Node{
		name:     name,
		def:      def,
		behavior: b,
		cache:    make([]cty.Value, len(def.Outputs)),
		valid:    make([]bool, len(def.Outputs)),
	}
}

// Name returns the node's identity. Names are unique within a template
// and immutable after creation.
func (n *Node) Name() string { return n.name }

// Definition returns the node kind's static description.
func (n *Node) Definition() Definition { return n.def }

// Behavior returns the node's behavior instance.
func (n *Node) Behavior() Behavior { return n.behavior }

// IsOutput reports whether this node is the template's terminal.
func (n *Node) IsOutput() bool { return n.def.Role == RoleOutput }

// EditorData returns the opaque editor blob (position, folds, ...).
// The engine persists it verbatim and never interprets it.
func (n *Node) EditorData() json.RawMessage { return n.editor }

// SetEditorData replaces the editor blob.
func (n *Node) SetEditorData(data json.RawMessage) { n.editor = data }

// ExportCustomData returns the behavior's persisted parameters.
func (n *Node) ExportCustomData() (json.RawMessage, error) {
	return n.behavior.ExportData()
}

// RestoreCustomData replaces the behavior's parameters and drops the
// memos of this node and its downstream cone. The next Resolve may
// produce a different value, so the template is told so.
func (n *Node) RestoreCustomData(data json.RawMessage) error {
	if err := n.behavior.RestoreData(data); err != nil {
		return err
	}
	n.ClearCache()
	if n.owner != nil {
		n.owner.notifySimulationOutdated()
	}
	return nil
}

// Output returns the node's value for one output slot, computing it if
// the memo is stale. Upstream values are pulled recursively through the
// owning template, so only the backward cone of this slot runs; every
// node computes each slot at most once per cache epoch.
func (n *Node) Output(slot int) (cty.Value, error) {
	if slot < 0 || slot >= len(n.cache) {
		return cty.NilVal, fmt.Errorf("%w: output %d of %q", ErrSlotRange, slot, n.name)
	}
	if n.valid[slot] {
		return n.cache[slot], nil
	}

	in := make([]cty.Value, len(n.def.Inputs))
	for i := range in {
		in[i] = cty.NilVal
		if n.owner == nil {
			continue
		}
		src, ok := n.owner.PredecessorOf(n.name, i)
		if !ok {
			continue
		}
		upstream, ok := n.owner.Node(src.Node)
		if !ok {
			continue
		}
		v, err := upstream.Output(src.Slot)
		if err != nil {
			return cty.NilVal, err
		}
		in[i] = v
	}

	v, err := n.behavior.Compute(slot, in)
	if err != nil {
		return cty.NilVal, &ComputeError{Node: n.name, Slot: slot, Err: err}
	}
	n.cache[slot] = v
	n.valid[slot] = true
	return v, nil
}

// ClearCache drops this node's memoized outputs and those of every node
// downstream of it. Memos elsewhere stay valid.
func (n *Node) ClearCache() {
	if n.owner != nil {
		n.owner.invalidateFrom(n.name)
		return
	}
	n.clearOwn()
}

// clearOwn drops only this node's memos.
func (n *Node) clearOwn() {
	for i := range n.valid {
		n.valid[i] = false
		n.cache[i] = cty.NilVal
	}
}
