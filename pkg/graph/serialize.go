package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the persisted form of a template.
type Document struct {
	Nodes       []NodeRecord       `json:"nodes"`
	Connections []ConnectionRecord `json:"connections"`
}

// NodeRecord is one saved node: identity, registry tag, and the two
// opaque blobs.
type NodeRecord struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Editor json.RawMessage `json:"editor,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ConnectionRecord is one saved edge.
type ConnectionRecord struct {
	From     string `json:"from"`
	FromPort int    `json:"from_port"`
	To       string `json:"to"`
	ToPort   int    `json:"to_port"`
}

// Save flattens the template into a document: node records in creation
// order, connection records ordered by destination.
func (t *Template) Save() (*Document, error) {
	doc := &Document{
		Nodes:       make([]NodeRecord, 0, len(t.order)),
		Connections: t.Connections(),
	}
	for _, name := range t.order {
		n := t.nodes[name]
		data, err := n.behavior.ExportData()
		if err != nil {
			return nil, fmt.Errorf("graph: exporting %q: %w", name, err)
		}
		doc.Nodes = append(doc.Nodes, NodeRecord{
			Name:   name,
			Type:   n.def.Tag,
			Editor: n.editor,
			Data:   data,
		})
	}
	return doc, nil
}

// Load clears the template and rebuilds it from a document. Behaviors
// come from the registry; a tag the registry cannot resolve aborts the
// load and leaves the template empty, never partially built. Connection
// records replay through the interactive connect path, so the fan-in
// bound and cycle rejection hold for documents exactly as for edits.
// A successful load raises one graph_changed / simulation_outdated pair.
func (t *Template) Load(doc *Document, reg *Registry) error {
	t.quiet = true
	defer func() { t.quiet = false }()

	t.Clear()
	for _, rec := range doc.Nodes {
		b, err := reg.New(rec.Type)
		if err != nil {
			t.Clear()
			return &LoadError{Node: rec.Name, Err: err}
		}
		rd := RestoreData{Name: rec.Name, Editor: rec.Editor, Custom: rec.Data}
		if _, err := t.RestoreNode(b, rd); err != nil {
			t.Clear()
			return &LoadError{Node: rec.Name, Err: err}
		}
	}
	for _, rec := range doc.Connections {
		// Structural rejections are no-ops interactively; a corrupt
		// record is skipped the same way.
		_ = t.Connect(rec.From, rec.FromPort, rec.To, rec.ToPort)
	}
	t.loaded = true

	t.quiet = false
	t.notifyGraphChanged()
	t.notifySimulationOutdated()
	return nil
}

// ReadDocument parses a saved template file. A missing file, an
// unreadable file, malformed JSON, a non-object top level, or an object
// without a "nodes" key all yield nil; callers treat that as an empty
// template, matching the editor's forgiving open behavior. Only a real
// document counts as loaded.
func ReadDocument(path string) *Document {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil
	}
	if _, ok := top["nodes"]; !ok {
		return nil
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return &doc
}

// LoadFile reads path into the template. A file that does not parse
// loads as empty without error; an unknown node type inside a
// well-formed file is reported and likewise leaves the template empty.
func (t *Template) LoadFile(path string, reg *Registry) error {
	doc := ReadDocument(path)
	if doc == nil {
		t.Clear()
		return nil
	}
	return t.Load(doc, reg)
}

// SaveFile writes the template to path as indented JSON.
func (t *Template) SaveFile(path string) error {
	doc, err := t.Save()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
