package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// ErrDuplicateNodeType is returned when two definitions share a name.
var ErrDuplicateNodeType = errors.New("duplicate node type")

// Loader is the interface for a format-specific catalog loader.
type Loader interface {
	// Load reads node type definitions from the given files or directories.
	Load(ctx context.Context, paths ...string) (Catalog, error)
}

// MetaKind distinguishes plain typed meta parameters from the ones a node
// behavior interprets itself.
type MetaKind int

const (
	// Simple meta values carry a DataType.
	Simple MetaKind = iota
	// FilePath meta values are a path string.
	FilePath
	// Text meta values are an arbitrary string.
	Text
)

func (k MetaKind) String() string {
	switch k {
	case Simple:
		return "Simple"
	case FilePath:
		return "FilePath"
	case Text:
		return "Text"
	}
	return fmt.Sprintf("MetaKind(%d)", int(k))
}

// MetaInfo describes one meta parameter. Type is only meaningful for Simple.
type MetaInfo struct {
	Name    string
	Kind    MetaKind
	Type    datatype.DataType
	Default *cty.Value
}

// InputInfo describes one input slot.
type InputInfo struct {
	Name    string
	Type    datatype.DataType
	Default *cty.Value
}

// OutputInfo describes one output slot.
type OutputInfo struct {
	Name string
	Type datatype.DataType
}

// NodeType is the schema of a node kind.
type NodeType struct {
	Name        string
	DisplayName string
	Meta        []MetaInfo
	Inputs      []InputInfo
	Outputs     []OutputInfo
}

// InputType returns the declared data type of the input slot.
func (nt *NodeType) InputType(slot int) (datatype.DataType, bool) {
	if slot < 0 || slot >= len(nt.Inputs) {
		return 0, false
	}
	return nt.Inputs[slot].Type, true
}

// OutputType returns the declared data type of the output slot.
func (nt *NodeType) OutputType(slot int) (datatype.DataType, bool) {
	if slot < 0 || slot >= len(nt.Outputs) {
		return 0, false
	}
	return nt.Outputs[slot].Type, true
}

// Validate checks the internal consistency of a definition: a name, unique
// slot names per list and declared data types.
func (nt *NodeType) Validate() error {
	if nt.Name == "" {
		return errors.New("node type has no name")
	}

	seen := make(map[string]struct{})
	check := func(list, name string, dt datatype.DataType) error {
		if name == "" {
			return fmt.Errorf("node type %q: %s entry has no name", nt.Name, list)
		}
		key := list + "/" + name
		if _, dup := seen[key]; dup {
			return fmt.Errorf("node type %q: duplicate %s %q", nt.Name, list, name)
		}
		seen[key] = struct{}{}
		if !dt.Valid() {
			return fmt.Errorf("node type %q: %s %q has invalid data type %s", nt.Name, list, name, dt)
		}
		return nil
	}

	for _, m := range nt.Meta {
		if err := check("meta", m.Name, m.Type); err != nil {
			return err
		}
	}
	for _, in := range nt.Inputs {
		if err := check("input", in.Name, in.Type); err != nil {
			return err
		}
	}
	for _, out := range nt.Outputs {
		if err := check("output", out.Name, out.Type); err != nil {
			return err
		}
	}
	return nil
}

// Catalog maps node type names to their definitions.
type Catalog map[string]*NodeType

// Lookup returns the definition for name.
func (c Catalog) Lookup(name string) (*NodeType, bool) {
	nt, ok := c[name]
	return nt, ok
}

// Add validates nt and inserts it. A name already present is an error.
func (c Catalog) Add(nt *NodeType) error {
	if err := nt.Validate(); err != nil {
		return err
	}
	if _, exists := c[nt.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeType, nt.Name)
	}
	c[nt.Name] = nt
	return nil
}

// Names returns the node type names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge combines catalogs into a new one. The same name in two catalogs is an
// error rather than an override.
func Merge(catalogs ...Catalog) (Catalog, error) {
	out := make(Catalog)
	for _, c := range catalogs {
		for _, name := range c.Names() {
			if err := out.Add(c[name]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
