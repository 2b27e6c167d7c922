// Package graphfile reads and writes persisted graph documents.
package graphfile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/graph"
)

var api = sonic.ConfigStd

// Read decodes a graph document from r.
func Read(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document: %w", err)
	}
	var g graph.Graph
	if err := api.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	return &g, nil
}

// Write encodes g to w as indented JSON.
func Write(w io.Writer, g *graph.Graph) error {
	data, err := api.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode graph document: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write graph document: %w", err)
	}
	return nil
}

// Load reads the graph document at path.
func Load(ctx context.Context, path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Graph file loaded.", "path", path, "nodes", g.Len(), "connections", len(g.Connections()))
	return g, nil
}

// Save writes g to path, replacing any existing file.
func Save(ctx context.Context, path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph file: %w", err)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close graph file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Graph file saved.", "path", path, "nodes", g.Len())
	return nil
}
