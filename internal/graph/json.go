package graph

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/zclconf/go-cty/cty"
)

// nodeDocument is the persisted form of a Node.
type nodeDocument struct {
	NodeType string            `json:"node_type"`
	Meta     []json.RawMessage `json:"meta"`
	Inputs   []SlotValue       `json:"inputs"`
}

// graphDocument is the persisted form of a Graph.
type graphDocument struct {
	Nodes       map[NodeID]nodeDocument `json:"nodes"`
	Connections []Connection            `json:"connections"`
}

// MarshalJSON encodes the graph as
//
//	{"nodes": {id: {"node_type", "meta", "inputs"}}, "connections": [...]}
//
// Literal values are written as plain JSON.
func (g *Graph) MarshalJSON() ([]byte, error) {
	doc := graphDocument{
		Nodes:       make(map[NodeID]nodeDocument, len(g.nodes)),
		Connections: g.connections,
	}
	if doc.Connections == nil {
		doc.Connections = []Connection{}
	}

	for id, n := range g.nodes {
		nd := nodeDocument{
			NodeType: n.Type,
			Meta:     make([]json.RawMessage, len(n.Meta)),
			Inputs:   n.Inputs,
		}
		if nd.Inputs == nil {
			nd.Inputs = []SlotValue{}
		}
		for i, v := range n.Meta {
			raw, err := encodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("node %s, meta %d: %w", id, i, err)
			}
			nd.Meta[i] = raw
		}
		doc.Nodes[id] = nd
	}
	return sonic.ConfigStd.Marshal(doc)
}

// UnmarshalJSON replaces g with the decoded graph. Slot states are taken as
// written; connections are only checked for a single producer per input.
// Everything else is left to Finalize.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var doc graphDocument
	if err := sonic.ConfigStd.Unmarshal(data, &doc); err != nil {
		return err
	}

	out := newEmpty()
	for id, nd := range doc.Nodes {
		n := &Node{
			Type:   nd.NodeType,
			Meta:   make([]cty.Value, len(nd.Meta)),
			Inputs: nd.Inputs,
		}
		for i, raw := range nd.Meta {
			v, err := decodeValue(raw)
			if err != nil {
				return fmt.Errorf("node %s, meta %d: %w", id, i, err)
			}
			n.Meta[i] = v
		}
		out.nodes[id] = n
	}
	for _, conn := range doc.Connections {
		if err := out.addConnection(conn); err != nil {
			return err
		}
	}

	*g = *out
	return nil
}
