package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/dag"
	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/specialistvlad/osmium/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// SlotKind selects the input or output side of a node.
type SlotKind int

const (
	InputSlot SlotKind = iota
	OutputSlot
)

// FinalizedGraph is a validated, immutable graph paired with the catalog it
// was validated against. It is safe for concurrent reads, so several runs
// may share it.
type FinalizedGraph struct {
	graph   *Graph
	catalog catalog.Catalog
}

// Finalize validates g against cat and returns an immutable snapshot of it.
// The first violation aborts validation:
//
//   - a node whose type is unknown: ErrInvalidNode
//   - meta or input arity differing from the catalog: ErrMissingValue
//   - a connection whose slot is out of range or whose output type does not
//     broadcast to its input type: ErrInvalidSlots
//   - a cycle among connections: ErrCyclic
//
// Nodes are checked in id order and connections in insertion order, so the
// reported error is deterministic. Later changes to g do not affect the
// result.
func Finalize(ctx context.Context, g *Graph, cat catalog.Catalog) (_ *FinalizedGraph, err error) {
	ctx, span := tracing.Start(ctx, "graph.Finalize",
		attribute.Int("graph.nodes", g.Len()),
		attribute.Int("graph.connections", len(g.connections)),
	)
	defer func() { tracing.End(span, err) }()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Finalizing graph.", "nodes", g.Len(), "connections", len(g.connections))

	deps := dag.New[NodeID]()

	for _, id := range g.IDs() {
		n := g.nodes[id]
		nt, ok := cat.Lookup(n.Type)
		if !ok {
			return nil, &GraphError{Kind: ErrInvalidNode, NodeID: id, NodeType: n.Type}
		}
		if len(n.Meta) != len(nt.Meta) {
			return nil, &GraphError{Kind: ErrMissingValue, NodeID: id, NodeType: n.Type, Field: FieldMeta, Want: len(nt.Meta), Got: len(n.Meta)}
		}
		if len(n.Inputs) != len(nt.Inputs) {
			return nil, &GraphError{Kind: ErrMissingValue, NodeID: id, NodeType: n.Type, Field: FieldInput, Want: len(nt.Inputs), Got: len(n.Inputs)}
		}
		deps.AddNode(id)
	}

	for i := range g.connections {
		conn := g.connections[i]
		if err := checkConnection(g, cat, conn); err != nil {
			return nil, err
		}
		// The consumer depends on the producer.
		if err := deps.AddEdge(conn.Input.Node, conn.Output.Node); err != nil {
			return nil, fmt.Errorf("building dependency graph: %w", err)
		}
	}

	if err := deps.DetectCycles(); err != nil {
		gErr := &GraphError{Kind: ErrCyclic}
		var cycle *dag.CycleError[NodeID]
		if errors.As(err, &cycle) {
			gErr.NodeID = cycle.Node
		}
		return nil, gErr
	}
	logger.Debug("Graph finalized.", "nodes", g.Len(), "connections", len(g.connections))

	return &FinalizedGraph{graph: g.Clone(), catalog: cat}, nil
}

func checkConnection(g *Graph, cat catalog.Catalog, conn Connection) error {
	in, ok := g.nodes[conn.Input.Node]
	if !ok {
		return &GraphError{Kind: ErrInvalidNode, NodeID: conn.Input.Node, Connection: &conn}
	}
	out, ok := g.nodes[conn.Output.Node]
	if !ok {
		return &GraphError{Kind: ErrInvalidNode, NodeID: conn.Output.Node, Connection: &conn}
	}

	// Both types were resolved while checking nodes.
	inType, _ := cat.Lookup(in.Type)
	outType, _ := cat.Lookup(out.Type)

	to, ok := inType.InputType(conn.Input.Slot)
	if !ok {
		return &GraphError{Kind: ErrInvalidSlots, NodeID: conn.Input.Node, NodeType: in.Type, Connection: &conn,
			Detail: fmt.Sprintf("%s has %d input slots", in.Type, len(inType.Inputs))}
	}
	from, ok := outType.OutputType(conn.Output.Slot)
	if !ok {
		return &GraphError{Kind: ErrInvalidSlots, NodeID: conn.Output.Node, NodeType: out.Type, Connection: &conn,
			Detail: fmt.Sprintf("%s has %d output slots", out.Type, len(outType.Outputs))}
	}
	if !datatype.Broadcasts(from, to) {
		return &GraphError{Kind: ErrInvalidSlots, NodeID: conn.Input.Node, NodeType: in.Type, Connection: &conn,
			Detail: fmt.Sprintf("%s does not broadcast to %s", from, to)}
	}
	return nil
}

// Catalog returns the catalog the graph was validated against.
func (fg *FinalizedGraph) Catalog() catalog.Catalog {
	return fg.catalog
}

// Node returns the node stored under id. Callers must not modify it.
func (fg *FinalizedGraph) Node(id NodeID) (*Node, bool) {
	return fg.graph.Node(id)
}

// NodeType returns the catalog entry of the node stored under id.
func (fg *FinalizedGraph) NodeType(id NodeID) (*catalog.NodeType, bool) {
	n, ok := fg.graph.nodes[id]
	if !ok {
		return nil, false
	}
	return fg.catalog.Lookup(n.Type)
}

// IDs returns all node ids sorted by their string form.
func (fg *FinalizedGraph) IDs() []NodeID {
	return fg.graph.IDs()
}

// Len returns the number of nodes.
func (fg *FinalizedGraph) Len() int {
	return fg.graph.Len()
}

// Connections returns a copy of the connection list.
func (fg *FinalizedGraph) Connections() []Connection {
	return fg.graph.Connections()
}

// SlotConnectedFrom returns the connection feeding the given input slot.
func (fg *FinalizedGraph) SlotConnectedFrom(node NodeID, slot int) (Connection, bool) {
	return fg.graph.SlotConnectedFrom(node, slot)
}

// SlotDataType resolves the declared data type of a slot.
func (fg *FinalizedGraph) SlotDataType(addr NodeAddress, kind SlotKind) (datatype.DataType, bool) {
	nt, ok := fg.NodeType(addr.Node)
	if !ok {
		return 0, false
	}
	if kind == InputSlot {
		return nt.InputType(addr.Slot)
	}
	return nt.OutputType(addr.Slot)
}

// MarshalJSON serialises the underlying authoring model.
func (fg *FinalizedGraph) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(fg.graph)
}
