// Package save provides the "Save" node, which writes its texture input to
// an image file sized by the run dimensions.
package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/specialistvlad/osmium/internal/texture"
	"github.com/zclconf/go-cty/cty"
)

// ErrMissingArgument means the node was dispatched without its path or
// texture.
var ErrMissingArgument = errors.New("missing argument")

// Module implements the registry.Module interface for this package.
type Module struct {
	// SuffixSize appends the run dimensions to every written file name, so
	// "out.png" becomes "out_64x64.png". Set it when one process evaluates
	// the same graph at several sizes.
	SuffixSize bool
}

// Save writes inputs[0] to the path in meta[0]. The format follows the file
// extension. It has no outputs.
func (m *Module) Save(ctx context.Context, meta, inputs []cty.Value, rc runctx.Context) ([]cty.Value, error) {
	if len(meta) < 1 || len(inputs) < 1 {
		return nil, fmt.Errorf("%w: save needs a path and a texture", ErrMissingArgument)
	}
	path, err := pathOf(meta[0])
	if err != nil {
		return nil, err
	}
	if m.SuffixSize {
		path = SizedPath(path, rc)
	}

	logger := ctxlog.FromContext(ctx).With("path", path)

	format, err := texture.FormatFor(path)
	if err != nil {
		return nil, err
	}
	img, err := texture.Image(inputs[0], rc)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	if err := texture.Encode(f, img, format); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	logger.Info("Image saved.", "format", format.String(), "dimensions", rc.String())
	return []cty.Value{}, nil
}

// SizedPath inserts "_WxH" before the extension of path.
func SizedPath(path string, rc runctx.Context) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + rc.String() + ext
}

func pathOf(v cty.Value) (string, error) {
	if !v.IsKnown() || v.IsNull() || !v.Type().Equals(cty.String) {
		return "", fmt.Errorf("%w: path must be a string", ErrMissingArgument)
	}
	if v.AsString() == "" {
		return "", fmt.Errorf("%w: path is empty", ErrMissingArgument)
	}
	return v.AsString(), nil
}

// Register registers the behavior with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("Save", m.Save)
}
