// Package value provides the "Value" node, which publishes its meta values
// as outputs.
package value

import (
	"context"

	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Passthrough returns the meta values followed by the inputs, unchanged.
func Passthrough(_ context.Context, meta, inputs []cty.Value, _ runctx.Context) ([]cty.Value, error) {
	out := make([]cty.Value, 0, len(meta)+len(inputs))
	out = append(out, meta...)
	return append(out, inputs...), nil
}

// Register registers the behavior with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("Value", Passthrough)
}
