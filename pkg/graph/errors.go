package graph

import (
	"errors"
	"fmt"
)

// Structural rejections. Mutating operations return one of these and
// leave the template untouched; callers may ignore them freely.
var (
	ErrOutputExists    = errors.New("graph: template already has an output node")
	ErrOutputProtected = errors.New("graph: the output node cannot be deleted")
	ErrDuplicateName   = errors.New("graph: node name already in use")
	ErrUnknownNode     = errors.New("graph: no such node")
	ErrSlotRange       = errors.New("graph: slot index out of range")
	ErrSelfLoop        = errors.New("graph: connection would loop a node onto itself")
	ErrWouldCycle      = errors.New("graph: connection would create a cycle")
)

// ErrNoOutputNode reports resolution on a previously loaded template
// whose output node is missing.
var ErrNoOutputNode = errors.New("graph: template has no output node")

// UnknownTypeError is returned when a node record names a type tag the
// registry cannot resolve. It aborts the load.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("graph: unknown node type %q", e.Tag)
}

// LoadError wraps any failure while rebuilding a template from a
// document. The template is always reset to empty before it is returned.
type LoadError struct {
	Node string // node record being restored, if any
	Err  error
}

func (e *LoadError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("graph: load failed: %v", e.Err)
	}
	return fmt.Sprintf("graph: load failed at node %q: %v", e.Node, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ComputeError wraps a node behavior failure during resolution.
type ComputeError struct {
	Node string
	Slot int
	Err  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("graph: node %q output %d: %v", e.Node, e.Slot, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }
