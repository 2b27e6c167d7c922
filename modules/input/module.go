// Package input provides the "Input" node backing the graph input source.
package input

import (
	"context"

	"github.com/specialistvlad/osmium/internal/graph"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Info reports the run dimensions as a single Vec2 output. Meta and inputs
// are ignored.
func Info(_ context.Context, _, _ []cty.Value, rc runctx.Context) ([]cty.Value, error) {
	size := cty.TupleVal([]cty.Value{
		cty.NumberIntVal(int64(rc.Width)),
		cty.NumberIntVal(int64(rc.Height)),
	})
	return []cty.Value{size}, nil
}

// Register registers the behavior with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(graph.InputNodeType, Info)
}
