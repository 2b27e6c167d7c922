package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
)

// ErrMissingBehavior is wrapped by ValidateRegistry when a catalog node type
// has no registered behavior.
var ErrMissingBehavior = errors.New("node type has no registered behavior")

// ValidateRegistry performs a parity check between the catalog and the Go
// code. Every catalog node type must have a behavior. Behaviors without a
// catalog entry can never be reached and are only reported as warnings.
func (r *Registry) ValidateRegistry(ctx context.Context, cat catalog.Catalog) error {
	logger := ctxlog.FromContext(ctx)

	var missing []string
	for _, name := range cat.Names() {
		if _, ok := r.behaviors[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range r.Names() {
		if _, ok := cat.Lookup(name); !ok {
			logger.Warn("Behavior is registered for a node type the catalog does not declare.", "node_type", name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("registry validation failed: %w:\n- %s", ErrMissingBehavior, strings.Join(missing, "\n- "))
	}
	logger.Debug("Registry validation passed.", "behaviors", len(r.behaviors), "node_types", len(cat))
	return nil
}
