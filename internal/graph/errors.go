package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrCyclic means the dependency relation induced by connections has a cycle.
	ErrCyclic = errors.New("cyclical dependency found")
	// ErrInvalidNode means a node references a type absent from the catalog,
	// or a connection references a node absent from the graph.
	ErrInvalidNode = errors.New("invalid node type")
	// ErrMissingValue means a meta or input list disagrees with the catalog arity.
	ErrMissingValue = errors.New("missing slot value")
	// ErrInvalidSlots means a connection slot index is out of range or its
	// declared data types do not broadcast.
	ErrInvalidSlots = errors.New("invalid slot index")
)

// FieldType names the list an arity error refers to.
type FieldType int

const (
	FieldNone FieldType = iota
	FieldMeta
	FieldInput
)

func (f FieldType) String() string {
	switch f {
	case FieldMeta:
		return "Meta"
	case FieldInput:
		return "Input"
	}
	return ""
}

// GraphError is returned by Finalize. Kind is one of the Err* sentinels and
// is what errors.Is matches against.
type GraphError struct {
	Kind       error
	NodeID     NodeID
	NodeType   string
	Field      FieldType
	Connection *Connection
	// Want and Got are the expected and actual arity for ErrMissingValue.
	Want, Got int
	// Detail explains an ErrInvalidSlots failure.
	Detail string
}

func (e *GraphError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrInvalidNode) && e.Connection != nil && e.NodeType == "":
		return fmt.Sprintf("%v: connection %s references unknown node %q", e.Kind, e.Connection, e.NodeID)
	case errors.Is(e.Kind, ErrInvalidNode):
		return fmt.Sprintf("%v `%s`", e.Kind, e.NodeType)
	case errors.Is(e.Kind, ErrMissingValue):
		return fmt.Sprintf("%v for `%s` on node %s (%s): want %d, got %d", e.Kind, e.Field, e.NodeID, e.NodeType, e.Want, e.Got)
	case errors.Is(e.Kind, ErrInvalidSlots) && e.Connection != nil:
		if e.Detail != "" {
			return fmt.Sprintf("%v: connection %s: %s", e.Kind, e.Connection, e.Detail)
		}
		return fmt.Sprintf("%v: connection %s", e.Kind, e.Connection)
	case errors.Is(e.Kind, ErrCyclic) && !e.NodeID.IsZero():
		return fmt.Sprintf("%v involving node %s", e.Kind, e.NodeID)
	}
	return e.Kind.Error()
}

func (e *GraphError) Unwrap() error {
	return e.Kind
}
