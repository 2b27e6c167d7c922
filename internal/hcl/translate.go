package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/zclconf/go-cty/cty"
)

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(ctx context.Context, n *nodeBlock) (*catalog.NodeType, error) {
	nt := &catalog.NodeType{
		Name:        n.Name,
		DisplayName: n.DisplayName,
	}
	if nt.DisplayName == "" {
		nt.DisplayName = n.Name
	}

	for _, m := range n.Meta {
		kind, dt, err := metaTypeOf(ctx, m.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q, meta %q: %w", n.Name, m.Name, err)
		}
		def, err := defaultValue(m.Default)
		if err != nil {
			return nil, fmt.Errorf("node %q, meta %q: %w", n.Name, m.Name, err)
		}
		nt.Meta = append(nt.Meta, catalog.MetaInfo{Name: m.Name, Kind: kind, Type: dt, Default: def})
	}

	for _, in := range n.Inputs {
		dt, err := dataTypeOf(ctx, in.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q, input %q: %w", n.Name, in.Name, err)
		}
		def, err := defaultValue(in.Default)
		if err != nil {
			return nil, fmt.Errorf("node %q, input %q: %w", n.Name, in.Name, err)
		}
		nt.Inputs = append(nt.Inputs, catalog.InputInfo{Name: in.Name, Type: dt, Default: def})
	}

	for _, out := range n.Outputs {
		dt, err := dataTypeOf(ctx, out.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q, output %q: %w", n.Name, out.Name, err)
		}
		nt.Outputs = append(nt.Outputs, catalog.OutputInfo{Name: out.Name, Type: dt})
	}

	return nt, nil
}

// defaultValue evaluates an optional default expression without variables.
// A missing or null default yields nil.
func defaultValue(expr hcl.Expression) (*cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid default: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	return &val, nil
}
