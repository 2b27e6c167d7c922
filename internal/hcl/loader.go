package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/fsutil"
)

// Loader is the HCL implementation of catalog.Loader.
type Loader struct{}

var _ catalog.Loader = (*Loader)(nil)

// NewLoader creates a new HCL catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and collects their node
// blocks into a catalog. A node type declared twice is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (catalog.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL catalog loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	cat := make(catalog.Catalog)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, n := range root.Nodes {
			nt, err := l.translateNode(ctx, n)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			if err := cat.Add(nt); err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
		}
		logger.Debug("Loaded node types from file.", "file", file, "count", len(root.Nodes))
	}

	logger.Debug("HCL catalog loading complete.", "node_types", len(cat))
	return cat, nil
}

// findAllHCLFiles walks all given paths and returns a flat, de-duplicated list
// of .hcl files. A path that cannot be stat'ed, including one that does not
// exist, is an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if fsutil.HasExtension(path, ".hcl") {
				add(path)
			}
			continue
		}

		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
