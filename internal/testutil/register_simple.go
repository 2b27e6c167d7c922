package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single behavior.
type SimpleModule struct {
	NodeType string
	Behavior registry.Behavior
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	r.Register(m.NodeType, m.Behavior)
}

// Passthrough returns meta values followed by inputs.
func Passthrough(_ context.Context, meta, inputs []cty.Value, _ runctx.Context) ([]cty.Value, error) {
	out := make([]cty.Value, 0, len(meta)+len(inputs))
	out = append(out, meta...)
	return append(out, inputs...), nil
}

// CountingDispatcher wraps a dispatcher and counts calls per node type. It is
// safe for concurrent use.
type CountingDispatcher struct {
	Next registry.Dispatcher

	mu     sync.Mutex
	counts map[string]int
	inputs map[string][][]cty.Value
}

// NewCountingDispatcher wraps next.
func NewCountingDispatcher(next registry.Dispatcher) *CountingDispatcher {
	return &CountingDispatcher{
		Next:   next,
		counts: make(map[string]int),
		inputs: make(map[string][][]cty.Value),
	}
}

// Dispatch implements registry.Dispatcher.
func (c *CountingDispatcher) Dispatch(ctx context.Context, nodeType string, meta, inputs []cty.Value, rc runctx.Context) ([]cty.Value, error) {
	c.mu.Lock()
	c.counts[nodeType]++
	c.inputs[nodeType] = append(c.inputs[nodeType], inputs)
	c.mu.Unlock()
	return c.Next.Dispatch(ctx, nodeType, meta, inputs, rc)
}

// Count returns how many times nodeType was dispatched.
func (c *CountingDispatcher) Count(nodeType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[nodeType]
}

// Inputs returns the resolved inputs of every dispatch of nodeType.
func (c *CountingDispatcher) Inputs(nodeType string) [][]cty.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]cty.Value(nil), c.inputs[nodeType]...)
}
