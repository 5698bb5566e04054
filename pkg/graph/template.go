package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// SlotRef addresses one slot on one node. Whether it names an input or
// an output position depends on where the reference is used.
type SlotRef struct {
	Node string `json:"node"`
	Slot int    `json:"slot"`
}

// Vec2 is an editor-space position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// editorState is the blob the template writes for nodes it places
// itself. Hosts may replace it wholesale via SetEditorData.
type editorState struct {
	Offset Vec2 `json:"offset"`
}

// Template is the aggregate root: it owns the node set, the connection
// table, and the single Output reference. All mutation goes through it.
// A template is not safe for concurrent use; the host serializes edits
// and resolution.
type Template struct {
	nodes  map[string]*Node
	order  []string            // creation order, drives save order
	conns  map[SlotRef]SlotRef // destination input slot -> source output slot
	output string              // name of the output node, "" if none
	loaded bool                // a document was successfully loaded

	seq map[string]int // per-tag counters for derived names

	quiet                 bool // notifications suppressed (load in progress)
	graphChangedFns       []func()
	simulationOutdatedFns []func()
	connectionChangedFns  []func(node string)
}

// NewTemplate returns an empty template.
func NewTemplate() *Template {
	return &Template{
		nodes: make(map[string]*Node),
		conns: make(map[SlotRef]SlotRef),
		seq:   make(map[string]int),
	}
}

// CreateNode adds a node for the given behavior, derives a unique name
// from its tag, and places it at the editor position at. When the
// behavior has the output role and the template already has its
// terminal, nothing changes and ErrOutputExists is returned.
func (t *Template) CreateNode(b Behavior, at Vec2) (*Node, error) {
	def := b.Definition()
	if def.Role == RoleOutput && t.output != "" {
		return nil, ErrOutputExists
	}
	n := newNode(t.nextName(def.Tag), b)
	n.owner = t
	blob, _ := json.Marshal(editorState{Offset: at})
	n.editor = blob
	t.insert(n)
	t.notifyGraphChanged()
	t.notifySimulationOutdated()
	return n, nil
}

// RestoreData carries one saved node record back into a template.
type RestoreData struct {
	Name   string
	Editor json.RawMessage
	Custom json.RawMessage
}

// RestoreNode re-creates a node from saved state: the identity is taken
// verbatim, the editor blob is kept opaque, and the custom blob is
// handed to the behavior. No notifications are raised; the load path
// wraps an entire document in a single pair at the end.
func (t *Template) RestoreNode(b Behavior, rd RestoreData) (*Node, error) {
	def := b.Definition()
	if def.Role == RoleOutput && t.output != "" {
		return nil, ErrOutputExists
	}
	if rd.Name == "" {
		return nil, fmt.Errorf("graph: node record with empty name")
	}
	if _, taken := t.nodes[rd.Name]; taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, rd.Name)
	}
	n := newNode(rd.Name, b)
	n.owner = t
	n.editor = rd.Editor
	if len(rd.Custom) > 0 {
		if err := b.RestoreData(rd.Custom); err != nil {
			return nil, fmt.Errorf("graph: restoring %q: %w", rd.Name, err)
		}
	}
	t.insert(n)
	return n, nil
}

func (t *Template) insert(n *Node) {
	t.nodes[n.name] = n
	t.order = append(t.order, n.name)
	if n.def.Role == RoleOutput {
		t.output = n.name
	}
}

// nextName derives "tag", "tag2", "tag3", ... skipping names in use.
func (t *Template) nextName(tag string) string {
	if tag == "" {
		tag = "node"
	}
	for {
		t.seq[tag]++
		name := tag
		if t.seq[tag] > 1 {
			name = fmt.Sprintf("%s%d", tag, t.seq[tag])
		}
		if _, taken := t.nodes[name]; !taken {
			return name
		}
	}
}

// DeleteNode removes a node and severs every connection touching it, in
// either direction, without per-edge events. The output node is
// protected: deleting it returns ErrOutputProtected and changes nothing.
func (t *Template) DeleteNode(name string) error {
	n, ok := t.nodes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	if name == t.output {
		return ErrOutputProtected
	}

	// Downstream consumers lose an input; drop their memos while the
	// edges still exist.
	t.invalidateFrom(name)

	for dst, src := range t.conns {
		if dst.Node == name || src.Node == name {
			delete(t.conns, dst)
		}
	}

	delete(t.nodes, name)
	for i, nm := range t.order {
		if nm == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	n.owner = nil

	t.notifyGraphChanged()
	t.notifySimulationOutdated()
	return nil
}

// Connect wires (src, srcSlot) -> (dst, dstSlot). An input slot holds at
// most one edge, so an existing edge into the destination slot is
// replaced silently. Self-loops and cycle-forming edges are rejected
// without touching the table.
func (t *Template) Connect(src string, srcSlot int, dst string, dstSlot int) error {
	if src == dst {
		return ErrSelfLoop
	}
	from, ok := t.nodes[src]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, src)
	}
	to, ok := t.nodes[dst]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, dst)
	}
	if srcSlot < 0 || srcSlot >= len(from.def.Outputs) {
		return fmt.Errorf("%w: output %d of %q", ErrSlotRange, srcSlot, src)
	}
	if dstSlot < 0 || dstSlot >= len(to.def.Inputs) {
		return fmt.Errorf("%w: input %d of %q", ErrSlotRange, dstSlot, dst)
	}
	if t.reaches(dst, src) {
		return ErrWouldCycle
	}

	t.conns[SlotRef{Node: dst, Slot: dstSlot}] = SlotRef{Node: src, Slot: srcSlot}
	t.invalidateFrom(dst)

	t.notifyConnectionChanged(dst)
	t.notifyGraphChanged()
	t.notifySimulationOutdated()
	return nil
}

// Disconnect removes the exact edge (src, srcSlot) -> (dst, dstSlot) if
// it is present. Removing an absent edge is a silent no-op.
func (t *Template) Disconnect(src string, srcSlot int, dst string, dstSlot int) error {
	if _, ok := t.nodes[dst]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, dst)
	}
	key := SlotRef{Node: dst, Slot: dstSlot}
	cur, ok := t.conns[key]
	if !ok || cur.Node != src || cur.Slot != srcSlot {
		return nil
	}
	delete(t.conns, key)
	t.invalidateFrom(dst)

	t.notifyConnectionChanged(dst)
	t.notifyGraphChanged()
	t.notifySimulationOutdated()
	return nil
}

// Node returns the named node.
func (t *Template) Node(name string) (*Node, bool) {
	n, ok := t.nodes[name]
	return n, ok
}

// Nodes returns all nodes in creation order.
func (t *Template) Nodes() []*Node {
	out := make([]*Node, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.nodes[name])
	}
	return out
}

// NodeCount returns the total number of nodes.
func (t *Template) NodeCount() int {
	return len(t.nodes)
}

// OutputNode returns the template's terminal, or nil when none exists.
func (t *Template) OutputNode() *Node {
	if t.output == "" {
		return nil
	}
	return t.nodes[t.output]
}

// PredecessorOf returns the source slot feeding the given input slot.
func (t *Template) PredecessorOf(node string, inSlot int) (SlotRef, bool) {
	src, ok := t.conns[SlotRef{Node: node, Slot: inSlot}]
	return src, ok
}

// SuccessorsOf returns every input slot fed by the given output slot,
// ordered by destination.
func (t *Template) SuccessorsOf(node string, outSlot int) []SlotRef {
	var out []SlotRef
	for dst, src := range t.conns {
		if src.Node == node && src.Slot == outSlot {
			out = append(out, dst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Node != out[j].Node {
			return out[i].Node < out[j].Node
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

// Successors returns the distinct nodes consuming any output of the
// given node, ordered by name.
func (t *Template) Successors(node string) []*Node {
	seen := make(map[string]bool)
	var out []*Node
	for dst, src := range t.conns {
		if src.Node != node || seen[dst.Node] {
			continue
		}
		seen[dst.Node] = true
		if n, ok := t.nodes[dst.Node]; ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Connections returns the connection table as records, ordered by
// destination for determinism.
func (t *Template) Connections() []ConnectionRecord {
	out := make([]ConnectionRecord, 0, len(t.conns))
	for dst, src := range t.conns {
		out = append(out, ConnectionRecord{
			From:     src.Node,
			FromPort: src.Slot,
			To:       dst.Node,
			ToPort:   dst.Slot,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].ToPort < out[j].ToPort
	})
	return out
}

// ConnectionCount returns the number of edges.
func (t *Template) ConnectionCount() int {
	return len(t.conns)
}

// reaches reports whether a value leaving from can arrive at target
// through the current connection table.
func (t *Template) reaches(from, target string) bool {
	if from == target {
		return true
	}
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dst, src := range t.conns {
			if src.Node != cur || seen[dst.Node] {
				continue
			}
			if dst.Node == target {
				return true
			}
			seen[dst.Node] = true
			queue = append(queue, dst.Node)
		}
	}
	return false
}

// invalidateFrom drops the memo of name and of every node downstream
// of it.
func (t *Template) invalidateFrom(name string) {
	n, ok := t.nodes[name]
	if !ok {
		return
	}
	n.clearOwn()
	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dst, src := range t.conns {
			if src.Node != cur || seen[dst.Node] {
				continue
			}
			seen[dst.Node] = true
			if d, ok := t.nodes[dst.Node]; ok {
				d.clearOwn()
			}
			queue = append(queue, dst.Node)
		}
	}
}

// Resolve returns the value of the output node's sole output slot,
// computing only what its inputs transitively require. A fresh or
// hand-emptied template resolves to no value without error; a template
// that successfully loaded a document but has no terminal additionally
// reports ErrNoOutputNode.
func (t *Template) Resolve() (cty.Value, error) {
	out := t.OutputNode()
	if out == nil {
		if t.loaded {
			return cty.NilVal, ErrNoOutputNode
		}
		return cty.NilVal, nil
	}
	if len(out.def.Outputs) == 0 {
		return cty.NilVal, nil
	}
	return out.Output(0)
}

// InvalidateAll opens a new cache epoch: every memoized slot value in
// the template is dropped. The next Resolve recomputes from scratch.
func (t *Template) InvalidateAll() {
	for _, n := range t.nodes {
		n.clearOwn()
	}
}

// Clear empties the template: nodes, connections, and the output
// reference all go. Registered callbacks survive, so a host keeps its
// subscriptions across document loads.
func (t *Template) Clear() {
	for _, n := range t.nodes {
		n.owner = nil
	}
	t.nodes = make(map[string]*Node)
	t.order = nil
	t.conns = make(map[SlotRef]SlotRef)
	t.output = ""
	t.seq = make(map[string]int)
	t.loaded = false
	t.notifyGraphChanged()
	t.notifySimulationOutdated()
}

// ExposedVariables aggregates every behavior-published variable,
// prefixed by its node name, so the host property system sees keys like
// "number2/value".
func (t *Template) ExposedVariables() []ExposedVariable {
	var out []ExposedVariable
	for _, name := range t.order {
		exp, ok := t.nodes[name].behavior.(VariableExposer)
		if !ok {
			continue
		}
		for _, v := range exp.ExposedVariables() {
			out = append(out, ExposedVariable{Name: name + "/" + v.Name, Type: v.Type})
		}
	}
	return out
}
