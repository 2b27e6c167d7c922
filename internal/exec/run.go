package exec

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/specialistvlad/osmium/internal/graph"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/specialistvlad/osmium/internal/tracing"
	"github.com/zclconf/go-cty/cty"
	"go.opentelemetry.io/otel/attribute"
)

// Results maps every evaluated node to its output values.
type Results map[graph.NodeID][]cty.Value

// IDs returns the node ids of r sorted by their string form.
func (r Results) IDs() []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b graph.NodeID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Run evaluates every node of fg under rc and returns the outputs of all of
// them. The graph-output sink is skipped while its slot was never set, so a
// graph that does not use it still runs.
func Run(ctx context.Context, fg *graph.FinalizedGraph, rc runctx.Context, d registry.Dispatcher) (_ Results, err error) {
	ctx, span := tracing.Start(ctx, "exec.Run",
		attribute.Int("graph.nodes", fg.Len()),
		attribute.String("run.dimensions", rc.String()),
	)
	defer func() { tracing.End(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("Starting graph evaluation.", "nodes", fg.Len(), "dimensions", rc.String())

	s := newSolver(ctx, fg, rc, d)
	for _, id := range fg.IDs() {
		if id == graph.OutputID && unusedSink(fg) {
			logger.Debug("Skipping unused graph output.")
			continue
		}
		if _, err := s.solve(id); err != nil {
			return nil, err
		}
	}

	logger.Info("Graph evaluation finished.", "evaluated", len(s.cache))
	return s.cache, nil
}

// Solve evaluates a single node, and whatever it depends on, under rc.
func Solve(ctx context.Context, fg *graph.FinalizedGraph, rc runctx.Context, d registry.Dispatcher, id graph.NodeID) ([]cty.Value, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return newSolver(ctx, fg, rc, d).solve(id)
}

func unusedSink(fg *graph.FinalizedGraph) bool {
	n, ok := fg.Node(graph.OutputID)
	if !ok {
		return false
	}
	for _, in := range n.Inputs {
		if in.State() != graph.Unset {
			return false
		}
	}
	return true
}

// solver holds the state of one run. It is not shared between runs.
type solver struct {
	ctx        context.Context
	fg         *graph.FinalizedGraph
	rc         runctx.Context
	dispatcher registry.Dispatcher
	cache      Results
	inProgress map[graph.NodeID]struct{}
}

func newSolver(ctx context.Context, fg *graph.FinalizedGraph, rc runctx.Context, d registry.Dispatcher) *solver {
	return &solver{
		ctx:        ctx,
		fg:         fg,
		rc:         rc,
		dispatcher: d,
		cache:      make(Results, fg.Len()),
		inProgress: make(map[graph.NodeID]struct{}),
	}
}

func (s *solver) solve(id graph.NodeID) ([]cty.Value, error) {
	if out, ok := s.cache[id]; ok {
		return out, nil
	}

	n, ok := s.fg.Node(id)
	if !ok {
		return nil, &ExecutionError{Kind: ErrUnknownNode, NodeID: id, Slot: -1}
	}
	if _, busy := s.inProgress[id]; busy {
		return nil, &ExecutionError{Kind: ErrCycle, NodeID: id, NodeType: n.Type, Slot: -1}
	}
	s.inProgress[id] = struct{}{}
	defer delete(s.inProgress, id)

	inputs := make([]cty.Value, len(n.Inputs))
	for slot, in := range n.Inputs {
		v, err := s.resolveInput(id, n, slot, in)
		if err != nil {
			return nil, err
		}
		inputs[slot] = v
	}

	out, err := s.dispatch(id, n, inputs)
	if err != nil {
		return nil, err
	}
	s.cache[id] = out
	return out, nil
}

func (s *solver) resolveInput(id graph.NodeID, n *graph.Node, slot int, in graph.SlotValue) (cty.Value, error) {
	fail := func(kind, err error) error {
		return &ExecutionError{Kind: kind, NodeID: id, NodeType: n.Type, Slot: slot, Err: err}
	}

	switch in.State() {
	case graph.Literal:
		v, _ := in.Value()
		return v, nil

	case graph.Connected:
		conn, ok := s.fg.SlotConnectedFrom(id, slot)
		if !ok {
			return cty.NilVal, fail(ErrDisconnectedSlot, nil)
		}
		produced, err := s.solve(conn.Output.Node)
		if err != nil {
			return cty.NilVal, err
		}
		if conn.Output.Slot < 0 || conn.Output.Slot >= len(produced) {
			return cty.NilVal, fail(ErrValue, fmt.Errorf("%s produced %d values, need slot %d", conn.Output.Node, len(produced), conn.Output.Slot))
		}
		from, ok := s.fg.SlotDataType(conn.Output, graph.OutputSlot)
		if !ok {
			return cty.NilVal, fail(ErrValue, fmt.Errorf("no declared type for output %s", conn.Output))
		}
		to, ok := s.fg.SlotDataType(conn.Input, graph.InputSlot)
		if !ok {
			return cty.NilVal, fail(ErrValue, fmt.Errorf("no declared type for input %s", conn.Input))
		}
		v, err := datatype.Broadcast(produced[conn.Output.Slot], from, to, s.rc)
		if err != nil {
			return cty.NilVal, fail(ErrBroadcasting, err)
		}
		return v, nil
	}

	return cty.NilVal, fail(ErrDisconnectedSlot, nil)
}

func (s *solver) dispatch(id graph.NodeID, n *graph.Node, inputs []cty.Value) (_ []cty.Value, err error) {
	ctx, span := tracing.Start(s.ctx, "exec.Dispatch",
		attribute.String("node.id", id.String()),
		attribute.String("node.type", n.Type),
	)
	defer func() { tracing.End(span, err) }()

	ctx = ctxlog.With(ctx, "node", id.String(), "type", n.Type)
	ctxlog.FromContext(ctx).Debug("Solving node.", "inputs", len(inputs))

	out, err := s.dispatcher.Dispatch(ctx, n.Type, n.Meta, inputs, s.rc)
	if err != nil {
		kind := ErrNodeFailed
		if errors.Is(err, registry.ErrUnknownBehavior) {
			kind = ErrUnknownNode
		}
		return nil, &ExecutionError{Kind: kind, NodeID: id, NodeType: n.Type, Slot: -1, Err: err}
	}
	return out, nil
}
