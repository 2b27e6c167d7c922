package graph

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/zclconf/go-cty/cty"
)

// Node types of the two reserved nodes.
const (
	InputNodeType  = "Input"
	OutputNodeType = "Output"
)

// Node is one authored node. Meta and Inputs must match the arity its type
// declares in the catalog; this is checked by Finalize.
type Node struct {
	Type   string
	Meta   []cty.Value
	Inputs []SlotValue
}

func (n *Node) clone() *Node {
	return &Node{
		Type:   n.Type,
		Meta:   slices.Clone(n.Meta),
		Inputs: slices.Clone(n.Inputs),
	}
}

// NodeAddress identifies one slot of one node.
type NodeAddress struct {
	Node NodeID `json:"node"`
	Slot int    `json:"slot"`
}

func (a NodeAddress) String() string {
	return fmt.Sprintf("%s[%d]", a.Node, a.Slot)
}

// Connection is a directed edge from an output slot to an input slot.
type Connection struct {
	Input  NodeAddress `json:"input"`
	Output NodeAddress `json:"output"`
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -> %s", c.Output, c.Input)
}

// Graph is the mutable authoring model. It is not safe for concurrent use.
type Graph struct {
	nodes       map[NodeID]*Node
	connections []Connection
	// producers indexes connections by their input address.
	producers map[NodeAddress]int
	rng       *rand.Rand
}

// Option configures a Graph.
type Option func(*Graph)

// WithRand makes identifier generation draw from rng, which makes inserted
// ids reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(g *Graph) {
		g.rng = rng
	}
}

// New returns a graph holding only the two reserved nodes.
func New(opts ...Option) *Graph {
	g := newEmpty()
	for _, opt := range opts {
		opt(g)
	}
	g.nodes[InputID] = &Node{Type: InputNodeType}
	g.nodes[OutputID] = &Node{Type: OutputNodeType, Inputs: []SlotValue{UnsetSlot()}}
	return g
}

func newEmpty() *Graph {
	return &Graph{
		nodes:     make(map[NodeID]*Node),
		producers: make(map[NodeAddress]int),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Insert stores a new node and returns its freshly generated id. The node is
// not validated against any catalog.
func (g *Graph) Insert(nodeType string, meta []cty.Value, inputs []SlotValue) NodeID {
	var id NodeID
	for {
		id = NewID(randomID(g.rng))
		if _, taken := g.nodes[id]; !taken {
			break
		}
	}
	g.nodes[id] = &Node{
		Type:   nodeType,
		Meta:   slices.Clone(meta),
		Inputs: slices.Clone(inputs),
	}
	return id
}

// InsertDefault inserts a node of the given type with its meta values and
// input slots filled from the catalog defaults. Meta values without a default
// are null and inputs without a default are Unset.
func (g *Graph) InsertDefault(nodeType string, cat catalog.Catalog) (NodeID, error) {
	nt, ok := cat.Lookup(nodeType)
	if !ok {
		return NodeID{}, &GraphError{Kind: ErrInvalidNode, NodeType: nodeType}
	}

	meta := make([]cty.Value, len(nt.Meta))
	for i, m := range nt.Meta {
		if m.Default != nil {
			meta[i] = *m.Default
		} else {
			meta[i] = cty.NullVal(cty.DynamicPseudoType)
		}
	}
	inputs := make([]SlotValue, len(nt.Inputs))
	for i, in := range nt.Inputs {
		if in.Default != nil {
			inputs[i] = LiteralSlot(*in.Default)
		} else {
			inputs[i] = UnsetSlot()
		}
	}
	return g.Insert(nodeType, meta, inputs), nil
}

// Connect links an output slot to an input slot and marks the input slot
// Connected. It reports false, leaving the graph untouched, if either node is
// unknown, the input node has no such input slot, or the input address
// already has a producer. Data types and output arity are checked by
// Finalize.
func (g *Graph) Connect(outputNode NodeID, outputSlot int, inputNode NodeID, inputSlot int) bool {
	if _, ok := g.nodes[outputNode]; !ok {
		return false
	}
	in, ok := g.nodes[inputNode]
	if !ok || inputSlot < 0 || inputSlot >= len(in.Inputs) {
		return false
	}

	conn := Connection{
		Input:  NodeAddress{Node: inputNode, Slot: inputSlot},
		Output: NodeAddress{Node: outputNode, Slot: outputSlot},
	}
	if _, taken := g.producers[conn.Input]; taken {
		return false
	}

	in.Inputs[inputSlot] = ConnectedSlot()
	g.producers[conn.Input] = len(g.connections)
	g.connections = append(g.connections, conn)
	return true
}

// SlotConnectedFrom returns the connection feeding the given input slot.
func (g *Graph) SlotConnectedFrom(node NodeID, slot int) (Connection, bool) {
	i, ok := g.producers[NodeAddress{Node: node, Slot: slot}]
	if !ok {
		return Connection{}, false
	}
	return g.connections[i], true
}

// Node returns the node stored under id. The returned node belongs to the
// graph.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes, reserved nodes included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// IDs returns all node ids sorted by their string form.
func (g *Graph) IDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b NodeID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Connections returns a copy of the connection list in insertion order.
func (g *Graph) Connections() []Connection {
	return slices.Clone(g.connections)
}

// Clone returns a deep copy of g with its own identifier source.
func (g *Graph) Clone() *Graph {
	c := newEmpty()
	for id, n := range g.nodes {
		c.nodes[id] = n.clone()
	}
	for _, conn := range g.connections {
		_ = c.addConnection(conn)
	}
	return c
}

// addConnection appends conn without touching slot states. It fails when the
// input address already has a producer.
func (g *Graph) addConnection(conn Connection) error {
	if prev, taken := g.producers[conn.Input]; taken {
		return fmt.Errorf("input %s already connected from %s", conn.Input, g.connections[prev].Output)
	}
	g.producers[conn.Input] = len(g.connections)
	g.connections = append(g.connections, conn)
	return nil
}
