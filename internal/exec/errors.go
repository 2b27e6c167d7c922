package exec

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/osmium/internal/graph"
)

var (
	// ErrUnknownNode means a node id or node type could not be resolved.
	ErrUnknownNode = errors.New("unknown node")
	// ErrDisconnectedSlot means an input slot is Unset, or is marked
	// Connected without a matching connection.
	ErrDisconnectedSlot = errors.New("disconnected slot")
	// ErrValue means a producer returned fewer outputs than a connection needs.
	ErrValue = errors.New("node did not produce enough values")
	// ErrBroadcasting means a value could not be coerced across a connection.
	ErrBroadcasting = errors.New("broadcasting error")
	// ErrNodeFailed wraps an error returned by a node behavior.
	ErrNodeFailed = errors.New("node failed")
	// ErrCycle means evaluation re-entered a node it was still solving.
	ErrCycle = errors.New("dependency cycle reached during evaluation")
)

// ExecutionError describes the failure that aborted a run. Kind is one of the
// Err* sentinels; Err, when set, is the underlying cause.
type ExecutionError struct {
	Kind     error
	NodeID   graph.NodeID
	NodeType string
	// Slot is the input slot involved, or -1.
	Slot int
	Err  error
}

func (e *ExecutionError) Error() string {
	var b []byte
	b = fmt.Appendf(b, "%v", e.Kind)
	if e.Slot >= 0 {
		b = fmt.Appendf(b, " `%d`", e.Slot)
	}
	if !e.NodeID.IsZero() {
		b = fmt.Appendf(b, " on node %s", e.NodeID)
		if e.NodeType != "" {
			b = fmt.Appendf(b, " (%s)", e.NodeType)
		}
	}
	if e.Err != nil {
		b = fmt.Appendf(b, ": %v", e.Err)
	}
	return string(b)
}

func (e *ExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
