// Package preview provides the "Preview" node. It renders its texture input
// as a PNG and pushes the frame to a socket.io live viewer, waiting for the
// viewer to acknowledge it.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/specialistvlad/osmium/internal/texture"
	"github.com/zclconf/go-cty/cty"
)

const (
	defaultEvent   = "frame"
	defaultTimeout = 10 * time.Second
)

// ErrNoEndpoint means neither the node nor the module names a viewer URL.
var ErrNoEndpoint = errors.New("no preview endpoint configured")

// publisher delivers frames to a viewer.
type publisher interface {
	// Publish emits frame under event and blocks until the viewer replies
	// with `<event>_ack` or ctx is done.
	Publish(ctx context.Context, event string, frame map[string]any) error
	Close()
}

type dialFunc func(ctx context.Context, rawURL string) (publisher, error)

// Module implements the registry.Module interface for this package.
type Module struct {
	// DefaultURL is used when the node's url meta value is empty.
	DefaultURL string
	// Timeout bounds connecting and waiting for the acknowledgement.
	Timeout time.Duration

	dial dialFunc
}

// New creates a Module publishing to defaultURL unless a node overrides it.
func New(defaultURL string, timeout time.Duration) *Module {
	return &Module{DefaultURL: defaultURL, Timeout: timeout}
}

// Preview publishes inputs[0] and produces no outputs. meta holds the viewer
// URL and the event name, both optional.
func (m *Module) Preview(ctx context.Context, meta, inputs []cty.Value, rc runctx.Context) ([]cty.Value, error) {
	if len(inputs) < 1 {
		return nil, errors.New("preview needs a texture input")
	}
	url := m.DefaultURL
	if s := text(meta, 0); s != "" {
		url = s
	}
	if url == "" {
		return nil, ErrNoEndpoint
	}
	event := text(meta, 1)
	if event == "" {
		event = defaultEvent
	}

	logger := ctxlog.FromContext(ctx).With("url", url, "event", event)

	img, err := texture.Image(inputs[0], rc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := texture.Encode(&buf, img, texture.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview frame: %w", err)
	}
	frame := map[string]any{
		"width":  rc.Width,
		"height": rc.Height,
		"png":    base64.StdEncoding.EncodeToString(buf.Bytes()),
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dial := m.dial
	if dial == nil {
		dial = dialSocket
	}
	p, err := dial(opCtx, url)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	logger.Debug("Publishing preview frame.", "bytes", buf.Len())
	if err := p.Publish(opCtx, event, frame); err != nil {
		return nil, err
	}
	logger.Info("Preview frame acknowledged.", "dimensions", rc.String())
	return []cty.Value{}, nil
}

// text reads meta[i] as a string, treating anything else as empty.
func text(meta []cty.Value, i int) string {
	if i >= len(meta) {
		return ""
	}
	v := meta[i]
	if !v.IsKnown() || v.IsNull() || !v.Type().Equals(cty.String) {
		return ""
	}
	return v.AsString()
}

// Register registers the behavior with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("Preview", m.Preview)
}
