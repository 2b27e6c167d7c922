// Package output provides the "Output" node backing the graph output sink.
// It hands its texture input back unchanged.
package output

import (
	"github.com/specialistvlad/osmium/internal/graph"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/modules/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the behavior with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(graph.OutputNodeType, value.Passthrough)
}
