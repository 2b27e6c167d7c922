// This file contains the logic for parsing HCL type keywords (e.g. `scalar`,
// `texture`, `file_path`) into data types and meta kinds.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// typeKeyword extracts the bare identifier of a type expression. Quoted
// strings are accepted as well so that `type = "vec3"` behaves like
// `type = vec3`.
func typeKeyword(expr hcl.Expression) (string, error) {
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return "", fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		return v.Traversal.RootName(), nil

	case *hclsyntax.TemplateExpr:
		if len(v.Parts) == 1 {
			if lit, ok := v.Parts[0].(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type().Equals(cty.String) {
				return lit.Val.AsString(), nil
			}
		}
		return "", fmt.Errorf("type must be a keyword or a plain string, not a template")

	case nil:
		return "", fmt.Errorf("missing type")

	default:
		return "", fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// dataTypeOf parses an input or output type expression.
func dataTypeOf(ctx context.Context, expr hcl.Expression) (datatype.DataType, error) {
	kw, err := typeKeyword(expr)
	if err != nil {
		return 0, err
	}
	ctxlog.FromContext(ctx).Debug("Parsing type keyword.", "keyword", kw)
	return datatype.Parse(kw)
}

// metaTypeOf parses a meta type expression into its kind and, for simple
// meta values, its data type.
func metaTypeOf(ctx context.Context, expr hcl.Expression) (catalog.MetaKind, datatype.DataType, error) {
	kw, err := typeKeyword(expr)
	if err != nil {
		return 0, 0, err
	}
	ctxlog.FromContext(ctx).Debug("Parsing meta type keyword.", "keyword", kw)

	switch kw {
	case "file_path":
		return catalog.FilePath, 0, nil
	case "text":
		return catalog.Text, 0, nil
	}
	dt, err := datatype.Parse(kw)
	if err != nil {
		return 0, 0, err
	}
	return catalog.Simple, dt, nil
}
