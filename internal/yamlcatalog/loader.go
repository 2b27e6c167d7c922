// Package yamlcatalog loads a node-type catalog from YAML documents shaped as
// a mapping from node type name to its record:
//
//	Value:
//	  name: Value
//	  meta:
//	    - name: value
//	      type: { Simple: Scalar }
//	      default_value: 0
//	  inputs: []
//	  outputs:
//	    - name: value
//	      type: Scalar
package yamlcatalog

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/specialistvlad/osmium/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of catalog.Loader.
type Loader struct{}

var _ catalog.Loader = (*Loader)(nil)

// NewLoader creates a new YAML catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

type nodeRecord struct {
	Name        string         `yaml:"name"`
	DisplayName string         `yaml:"display_name"`
	Meta        []metaRecord   `yaml:"meta"`
	Inputs      []inputRecord  `yaml:"inputs"`
	Outputs     []outputRecord `yaml:"outputs"`
}

type metaRecord struct {
	Name    string   `yaml:"name"`
	Type    metaType `yaml:"type"`
	Default any      `yaml:"default_value"`
}

type inputRecord struct {
	Name    string            `yaml:"name"`
	Type    datatype.DataType `yaml:"type"`
	Default any               `yaml:"default_value"`
}

type outputRecord struct {
	Name string            `yaml:"name"`
	Type datatype.DataType `yaml:"type"`
}

// metaType accepts `FilePath`, `Text`, a bare data type name, or the tagged
// form `{ Simple: <data type> }`.
type metaType struct {
	Kind catalog.MetaKind
	Type datatype.DataType
}

func (m *metaType) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "FilePath":
			m.Kind = catalog.FilePath
			return nil
		case "Text":
			m.Kind = catalog.Text
			return nil
		}
		dt, err := datatype.Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		m.Kind, m.Type = catalog.Simple, dt
		return nil

	case yaml.MappingNode:
		var tagged struct {
			Simple *datatype.DataType `yaml:"Simple"`
		}
		if err := node.Decode(&tagged); err != nil {
			return err
		}
		if tagged.Simple == nil {
			return fmt.Errorf("line %d: meta type mapping must have a Simple key", node.Line)
		}
		m.Kind, m.Type = catalog.Simple, *tagged.Simple
		return nil
	}
	return fmt.Errorf("line %d: unsupported meta type", node.Line)
}

// Load reads every .yaml/.yml file found under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (catalog.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	cat := make(catalog.Catalog)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		files := []string{path}
		if info.IsDir() {
			if files, err = fsutil.FindFilesByExtension(path, ".yaml", ".yml"); err != nil {
				return nil, err
			}
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("error reading catalog file: %w", err)
			}
			parsed, err := Parse(data)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			for _, name := range parsed.Names() {
				if err := cat.Add(parsed[name]); err != nil {
					return nil, fmt.Errorf("in %s: %w", file, err)
				}
			}
			logger.Debug("Loaded YAML catalog file.", "file", file, "node_types", len(parsed))
		}
	}
	return cat, nil
}

// Parse decodes one YAML catalog document.
func Parse(data []byte) (catalog.Catalog, error) {
	var doc map[string]nodeRecord
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cat := make(catalog.Catalog, len(doc))
	for _, key := range keys {
		nt, err := translate(key, doc[key])
		if err != nil {
			return nil, err
		}
		if err := cat.Add(nt); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func translate(key string, r nodeRecord) (*catalog.NodeType, error) {
	if r.Name != "" && r.Name != key {
		return nil, fmt.Errorf("node type %q declares mismatching name %q", key, r.Name)
	}
	nt := &catalog.NodeType{Name: key, DisplayName: r.DisplayName}
	if nt.DisplayName == "" {
		nt.DisplayName = key
	}

	for _, m := range r.Meta {
		def, err := defaultValue(m.Default)
		if err != nil {
			return nil, fmt.Errorf("node %q, meta %q: %w", key, m.Name, err)
		}
		nt.Meta = append(nt.Meta, catalog.MetaInfo{Name: m.Name, Kind: m.Type.Kind, Type: m.Type.Type, Default: def})
	}
	for _, in := range r.Inputs {
		def, err := defaultValue(in.Default)
		if err != nil {
			return nil, fmt.Errorf("node %q, input %q: %w", key, in.Name, err)
		}
		nt.Inputs = append(nt.Inputs, catalog.InputInfo{Name: in.Name, Type: in.Type, Default: def})
	}
	for _, out := range r.Outputs {
		nt.Outputs = append(nt.Outputs, catalog.OutputInfo{Name: out.Name, Type: out.Type})
	}
	return nt, nil
}

func defaultValue(v any) (*cty.Value, error) {
	if v == nil {
		return nil, nil
	}
	val, err := toCty(v)
	if err != nil {
		return nil, err
	}
	return &val, nil
}

// toCty converts a decoded YAML value into the cty shape the evaluator uses:
// sequences become tuples and mappings become objects.
func toCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case []any:
		elems := make([]cty.Value, len(x))
		for i, e := range x {
			ev, err := toCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(x))
		for k, e := range x {
			ev, err := toCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported default value of type %T", v)
}
