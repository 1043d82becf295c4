package flock

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUGenType is returned when definition references a type
	// that is not registered.
	ErrUnknownUGenType = errors.New("unknown ugen type")
	// ErrDuplicateNodeID is returned when an id is used more than once
	// within a synth.
	ErrDuplicateNodeID = errors.New("duplicate node id")
	// ErrInvalidNodeSpec is returned for malformed definitions: missing
	// type or required input, unknown input, value of wrong kind or out
	// of the input domain.
	ErrInvalidNodeSpec = errors.New("invalid node spec")
	// ErrUnresolvedPath is returned when get or set path has no matching
	// node or input.
	ErrUnresolvedPath = errors.New("unresolved path")
)

// NodeError locates parse error in the definition.
type NodeError struct {
	ID    string
	Type  string
	Input string
	Err   error
}

func (e *NodeError) Error() string {
	node := e.Type
	if e.ID != "" {
		node = fmt.Sprintf("%s (%s)", e.ID, e.Type)
	}
	if e.Input != "" {
		return fmt.Sprintf("node %s input %s: %v", node, e.Input, e.Err)
	}
	return fmt.Sprintf("node %s: %v", node, e.Err)
}

// Unwrap returns underlying error.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// PathError is returned by synth get and set calls.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %v", e.Path, e.Err)
}

// Unwrap returns underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// invalid wraps the cause into ErrInvalidNodeSpec.
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidNodeSpec, fmt.Sprintf(format, args...))
}
