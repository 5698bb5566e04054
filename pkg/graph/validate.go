package graph

import "fmt"

// ValidationSeverity indicates whether a finding means the template is
// corrupt or is merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant broken, resolution untrustworthy
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     string // which node has the problem ("" if template-level)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %q: %s", e.Severity, e.Node, e.Message)
}

// DataValidator is implemented by behaviors that can sanity-check their
// own parameters (zero-size primitives, empty sources, ...). Returned
// strings become per-node warnings.
type DataValidator interface {
	ValidateData() []string
}

// Validate runs every check on the template and returns the findings.
// It is read-only, never blocks an edit, and an empty result means a
// clean template. Hosts surface the findings on the canvas.
func Validate(t *Template) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateAcyclic(t)...)
	errs = append(errs, validateEndpoints(t)...)
	errs = append(errs, validateTerminal(t)...)
	errs = append(errs, validateReachability(t)...)
	errs = append(errs, validateInputs(t)...)
	errs = append(errs, validateData(t)...)
	return errs
}

// validateAcyclic re-checks that the connection table holds no cycle,
// using DFS with 3-color marking. White = unvisited, gray = on the
// current path, black = fully explored; meeting a gray node means a
// cycle. Connect rejects cycle-forming edges, so a finding here means
// the table was corrupted from outside.
func validateAcyclic(t *Template) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int) // default zero = white
	var errs []ValidationError

	var visit func(name string) bool // returns true if cycle found
	visit = func(name string) bool {
		switch color[name] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  "cycle detected in the connection table",
				Severity: SeverityError,
			})
			return true
		}
		color[name] = gray
		for dst, src := range t.conns {
			if src.Node != name {
				continue
			}
			if visit(dst.Node) {
				return true
			}
		}
		color[name] = black
		return false
	}

	for _, name := range t.order {
		if color[name] == white {
			if visit(name) {
				// One cycle finding is sufficient; stop early.
				break
			}
		}
	}
	return errs
}

// validateEndpoints checks that every edge references live nodes and
// slots within their definitions.
func validateEndpoints(t *Template) []ValidationError {
	var errs []ValidationError
	for _, rec := range t.Connections() {
		src, ok := t.nodes[rec.From]
		if !ok {
			errs = append(errs, ValidationError{
				Node:     rec.From,
				Message:  "edge source does not exist",
				Severity: SeverityError,
			})
		} else if rec.FromPort < 0 || rec.FromPort >= len(src.def.Outputs) {
			errs = append(errs, ValidationError{
				Node:     rec.From,
				Message:  fmt.Sprintf("edge source slot %d out of range", rec.FromPort),
				Severity: SeverityError,
			})
		}
		dst, ok := t.nodes[rec.To]
		if !ok {
			errs = append(errs, ValidationError{
				Node:     rec.To,
				Message:  "edge destination does not exist",
				Severity: SeverityError,
			})
		} else if rec.ToPort < 0 || rec.ToPort >= len(dst.def.Inputs) {
			errs = append(errs, ValidationError{
				Node:     rec.To,
				Message:  fmt.Sprintf("edge destination slot %d out of range", rec.ToPort),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateTerminal warns when the template has no output node and errors
// when the output reference points at nothing. A completely empty
// template is a fresh canvas, not a finding.
func validateTerminal(t *Template) []ValidationError {
	if len(t.nodes) == 0 {
		return nil
	}
	if t.output == "" {
		return []ValidationError{{
			Message:  "template has no output node",
			Severity: SeverityWarning,
		}}
	}
	if _, ok := t.nodes[t.output]; !ok {
		return []ValidationError{{
			Node:     t.output,
			Message:  "output reference points to a deleted node",
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateReachability warns about nodes whose outputs never reach the
// terminal. They still evaluate on demand but contribute nothing to the
// final artifact.
func validateReachability(t *Template) []ValidationError {
	out := t.OutputNode()
	if out == nil || len(t.nodes) == 0 {
		return nil
	}

	// BFS upstream from the terminal through predecessor edges.
	reachable := map[string]bool{out.name: true}
	queue := []string{out.name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dst, src := range t.conns {
			if dst.Node != cur || reachable[src.Node] {
				continue
			}
			reachable[src.Node] = true
			queue = append(queue, src.Node)
		}
	}

	var errs []ValidationError
	for _, name := range t.order {
		if !reachable[name] {
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  "does not feed the output node",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateInputs warns about unconnected solid inputs. Scalar and vector
// inputs fall back to node parameters, but a solid cannot be synthesized
// from custom data, so an open solid input always yields no value.
func validateInputs(t *Template) []ValidationError {
	var errs []ValidationError
	for _, name := range t.order {
		n := t.nodes[name]
		for i, slot := range n.def.Inputs {
			if !slot.Type.IsCapsuleType() {
				continue
			}
			if _, ok := t.conns[SlotRef{Node: name, Slot: i}]; !ok {
				errs = append(errs, ValidationError{
					Node:     name,
					Message:  fmt.Sprintf("input %q has no incoming connection", slot.Name),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

// validateData collects parameter findings from behaviors that check
// themselves.
func validateData(t *Template) []ValidationError {
	var errs []ValidationError
	for _, name := range t.order {
		v, ok := t.nodes[name].behavior.(DataValidator)
		if !ok {
			continue
		}
		for _, msg := range v.ValidateData() {
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  msg,
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
