package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of a manifest file.
type fileRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// nodeBlock is a `node` block declaring one node type.
type nodeBlock struct {
	Name        string         `hcl:"name,label"`
	DisplayName string         `hcl:"display_name,optional"`
	Meta        []*metaBlock   `hcl:"meta,block"`
	Inputs      []*inputBlock  `hcl:"input,block"`
	Outputs     []*outputBlock `hcl:"output,block"`
}

// metaBlock declares a meta parameter. Its type may be a data type keyword
// or one of the meta-only kinds `file_path` and `text`.
type metaBlock struct {
	Name    string         `hcl:"name,label"`
	Type    hcl.Expression `hcl:"type"`
	Default hcl.Expression `hcl:"default,optional"`
}

// inputBlock declares an input slot.
type inputBlock struct {
	Name    string         `hcl:"name,label"`
	Type    hcl.Expression `hcl:"type"`
	Default hcl.Expression `hcl:"default,optional"`
}

// outputBlock declares an output slot.
type outputBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}
