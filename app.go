package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"github.com/zclconf/go-cty/cty"

	"github.com/asheraryam/concept-graph/pkg/artifact"
	"github.com/asheraryam/concept-graph/pkg/graph"
	"github.com/asheraryam/concept-graph/pkg/kernel"
	"github.com/asheraryam/concept-graph/pkg/kernel/sdfx"
	"github.com/asheraryam/concept-graph/pkg/nodes"
	"github.com/asheraryam/concept-graph/pkg/value"
)

// colorPalette is a default palette used to assign distinct colors to
// meshes in the viewport.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It owns the live template and exposes graph
// editing, resolution and persistence to the frontend via bindings.
// Template events are relayed to the frontend as Wails events of the
// same name.
type App struct {
	ctx      context.Context
	logger   *slog.Logger
	template *graph.Template
	registry *graph.Registry
	kernel   kernel.Kernel
	path     string // last save or load target, names the artifact
}

// NewApp builds the backend with the sdfx kernel and the built-in node
// catalog installed.
func NewApp(logger *slog.Logger) *App {
	a := &App{
		logger:   logger,
		template: graph.NewTemplate(),
		registry: graph.NewRegistry(),
		kernel:   sdfx.New(),
	}
	if err := nodes.Register(a.registry, a.kernel); err != nil {
		// The built-in catalog has fixed unique tags.
		panic(err)
	}
	a.template.OnGraphChanged(func() { a.emit("graph_changed") })
	a.template.OnSimulationOutdated(func() { a.emit("simulation_outdated") })
	a.template.OnConnectionChanged(func(node string) { a.emit("connection_changed", node) })
	return a
}

// startup is called by Wails on app startup. The context is saved so
// template events can reach the frontend from here on.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.logger.Info("concept graph shell started")
}

// emit relays a template event to the frontend. Before startup there is
// no runtime context and events are dropped.
func (a *App) emit(name string, data ...interface{}) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, data...)
}

// SlotInfo describes one slot for the frontend.
type SlotInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// KindInfo describes one palette entry.
type KindInfo struct {
	Tag     string     `json:"tag"`
	Label   string     `json:"label"`
	Role    string     `json:"role"`
	Inputs  []SlotInfo `json:"inputs"`
	Outputs []SlotInfo `json:"outputs"`
}

// NodeInfo describes one live node.
type NodeInfo struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Label   string          `json:"label"`
	Editor  json.RawMessage `json:"editor,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Inputs  []SlotInfo      `json:"inputs"`
	Outputs []SlotInfo      `json:"outputs"`
}

// GraphState is the whole template as the frontend draws it.
type GraphState struct {
	Nodes       []NodeInfo               `json:"nodes"`
	Connections []graph.ConnectionRecord `json:"connections"`
	Output      string                   `json:"output"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// Diagnostic is a JSON-serializable finding for the frontend.
type Diagnostic struct {
	Node     string `json:"node,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// EvalResult is the full result of resolving and rendering the template.
type EvalResult struct {
	Meshes   []MeshData   `json:"meshes"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// VariableInfo names one host-overridable parameter.
type VariableInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// slotType maps slot types to the names the frontend shows.
func slotType(t cty.Type) string {
	switch {
	case t.Equals(value.SolidType):
		return "solid"
	case t.Equals(value.Vec3Type):
		return "vector"
	case t.Equals(cty.Number):
		return "number"
	}
	return t.FriendlyName()
}

func slotInfos(slots []graph.Slot) []SlotInfo {
	out := make([]SlotInfo, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotInfo{Name: s.Name, Type: slotType(s.Type)})
	}
	return out
}

// Palette lists every node kind the frontend can place.
func (a *App) Palette() []KindInfo {
	defs := a.registry.Definitions()
	out := make([]KindInfo, 0, len(defs))
	for _, def := range defs {
		out = append(out, KindInfo{
			Tag:     def.Tag,
			Label:   def.Label,
			Role:    def.Role.String(),
			Inputs:  slotInfos(def.Inputs),
			Outputs: slotInfos(def.Outputs),
		})
	}
	return out
}

func (a *App) nodeInfo(n *graph.Node) NodeInfo {
	def := n.Definition()
	data, err := n.ExportCustomData()
	if err != nil {
		a.logger.Warn("exporting node data", "node", n.Name(), "err", err)
		data = nil
	}
	return NodeInfo{
		Name:    n.Name(),
		Type:    def.Tag,
		Label:   def.Label,
		Editor:  n.EditorData(),
		Data:    data,
		Inputs:  slotInfos(def.Inputs),
		Outputs: slotInfos(def.Outputs),
	}
}

// CreateNode instantiates a palette kind at an editor position.
func (a *App) CreateNode(tag string, x, y float64) (*NodeInfo, error) {
	b, err := a.registry.New(tag)
	if err != nil {
		return nil, err
	}
	n, err := a.template.CreateNode(b, graph.Vec2{X: x, Y: y})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("node created", "name", n.Name(), "type", tag)
	info := a.nodeInfo(n)
	return &info, nil
}

// DeleteNode removes a node and every connection touching it.
func (a *App) DeleteNode(name string) error {
	if err := a.template.DeleteNode(name); err != nil {
		return err
	}
	a.logger.Debug("node deleted", "name", name)
	return nil
}

// Connect wires an output slot to an input slot.
func (a *App) Connect(from string, fromPort int, to string, toPort int) error {
	return a.template.Connect(from, fromPort, to, toPort)
}

// Disconnect removes the exact edge if it exists.
func (a *App) Disconnect(from string, fromPort int, to string, toPort int) error {
	return a.template.Disconnect(from, fromPort, to, toPort)
}

// GraphView returns the whole template for a frontend redraw.
func (a *App) GraphView() GraphState {
	state := GraphState{
		Nodes:       []NodeInfo{},
		Connections: a.template.Connections(),
	}
	for _, n := range a.template.Nodes() {
		state.Nodes = append(state.Nodes, a.nodeInfo(n))
	}
	if out := a.template.OutputNode(); out != nil {
		state.Output = out.Name()
	}
	return state
}

// SetNodeData replaces a node's parameters from the property panel. The
// downstream memos drop and the frontend is told the simulation is
// outdated.
func (a *App) SetNodeData(name string, data json.RawMessage) error {
	n, ok := a.template.Node(name)
	if !ok {
		return fmt.Errorf("%w: %q", graph.ErrUnknownNode, name)
	}
	return n.RestoreCustomData(data)
}

// SetEditorData replaces a node's opaque editor blob (position, folds).
func (a *App) SetEditorData(name string, data json.RawMessage) error {
	n, ok := a.template.Node(name)
	if !ok {
		return fmt.Errorf("%w: %q", graph.ErrUnknownNode, name)
	}
	n.SetEditorData(data)
	return nil
}

// artifactName derives mesh names from the current file.
func (a *App) artifactName() string {
	if a.path == "" {
		return ""
	}
	base := filepath.Base(a.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func toDiagnostic(err error) Diagnostic {
	var ce *graph.ComputeError
	if errors.As(err, &ce) {
		return Diagnostic{Node: ce.Node, Message: err.Error(), Severity: "error"}
	}
	return Diagnostic{Message: err.Error(), Severity: "error"}
}

// Evaluate resolves the template, tessellates the result, and runs the
// advisory checks. This is the primary binding behind the viewport.
func (a *App) Evaluate() EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}

	v, err := a.template.Resolve()
	if err != nil {
		a.logger.Error("resolve failed", "err", err)
		result.Errors = append(result.Errors, toDiagnostic(err))
		return result
	}

	meshes, err := artifact.Meshes(v, a.kernel, a.artifactName())
	if err != nil {
		a.logger.Error("tessellation failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{
			Message:  "tessellation failed: " + err.Error(),
			Severity: "error",
		})
		return result
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	for _, f := range graph.Validate(a.template) {
		d := Diagnostic{Node: f.Node, Message: f.Message, Severity: f.Severity.String()}
		if f.Severity == graph.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	return result
}

// InvalidateAll drops every memoized slot value. The next Evaluate
// recomputes the whole template.
func (a *App) InvalidateAll() {
	a.template.InvalidateAll()
}

// Validate runs the advisory checks without resolving.
func (a *App) Validate() []Diagnostic {
	out := []Diagnostic{}
	for _, f := range graph.Validate(a.template) {
		out = append(out, Diagnostic{
			Node:     f.Node,
			Message:  f.Message,
			Severity: f.Severity.String(),
		})
	}
	return out
}

// ExposedVariables lists every behavior-published parameter, prefixed by
// node name.
func (a *App) ExposedVariables() []VariableInfo {
	out := []VariableInfo{}
	for _, ev := range a.template.ExposedVariables() {
		out = append(out, VariableInfo{Name: ev.Name, Type: slotType(ev.Type)})
	}
	return out
}

// SaveTemplate writes the current template to path.
func (a *App) SaveTemplate(path string) error {
	if err := a.template.SaveFile(path); err != nil {
		a.logger.Error("save failed", "path", path, "err", err)
		return err
	}
	a.path = path
	a.logger.Info("template saved", "path", path, "nodes", a.template.NodeCount())
	return nil
}

// LoadTemplate reads path into the live template. A file that does not
// parse opens as an empty template without error; a well-formed file
// with an unknown node type is an error and likewise leaves the
// template empty.
func (a *App) LoadTemplate(path string) error {
	if err := a.template.LoadFile(path, a.registry); err != nil {
		a.logger.Error("load failed", "path", path, "err", err)
		return err
	}
	a.path = path
	a.logger.Info("template loaded", "path", path, "nodes", a.template.NodeCount())
	return nil
}

// ClearTemplate empties the live template.
func (a *App) ClearTemplate() {
	a.template.Clear()
	a.path = ""
}
