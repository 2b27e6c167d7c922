package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownBehavior is returned by Dispatch for a name nobody registered.
var ErrUnknownBehavior = errors.New("unknown node type")

// Behavior computes the outputs of one node from its meta values and its
// resolved inputs.
type Behavior func(ctx context.Context, meta, inputs []cty.Value, rc runctx.Context) ([]cty.Value, error)

// Dispatcher runs node behaviors by node type name.
type Dispatcher interface {
	Dispatch(ctx context.Context, nodeType string, meta, inputs []cty.Value, rc runctx.Context) ([]cty.Value, error)
}

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered behaviors of a single application instance.
type Registry struct {
	behaviors map[string]Behavior
}

var _ Dispatcher = (*Registry)(nil)

// New creates an empty Registry.
func New() *Registry {
	return &Registry{behaviors: make(map[string]Behavior)}
}

// NewWithModules creates a Registry populated by the given modules.
func NewWithModules(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register binds a behavior to a node type name. Registering the same name
// twice is a programming error and panics.
func (r *Registry) Register(nodeType string, b Behavior) {
	if _, exists := r.behaviors[nodeType]; exists {
		panic(fmt.Sprintf("behavior for node type '%s' already registered", nodeType))
	}
	if b == nil {
		panic(fmt.Sprintf("behavior for node type '%s' is nil", nodeType))
	}
	slog.Debug("Registering node behavior.", "node_type", nodeType)
	r.behaviors[nodeType] = b
}

// Names returns the registered node type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.behaviors))
	for name := range r.behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the behavior registered for nodeType.
func (r *Registry) Dispatch(ctx context.Context, nodeType string, meta, inputs []cty.Value, rc runctx.Context) ([]cty.Value, error) {
	b, ok := r.behaviors[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w `%s`", ErrUnknownBehavior, nodeType)
	}
	return b(ctx, meta, inputs, rc)
}
