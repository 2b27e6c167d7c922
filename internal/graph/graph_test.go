package graph

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testCatalog() catalog.Catalog {
	scalar := cty.NumberIntVal(0)
	return catalog.Catalog{
		"Input": {Name: "Input", Outputs: []catalog.OutputInfo{{Name: "size", Type: datatype.Vec2}}},
		"Output": {Name: "Output", Inputs: []catalog.InputInfo{{Name: "value", Type: datatype.Texture}},
			Outputs: []catalog.OutputInfo{{Name: "value", Type: datatype.Texture}}},
		"Value": {Name: "Value",
			Meta:    []catalog.MetaInfo{{Name: "value", Kind: catalog.Simple, Type: datatype.Scalar, Default: &scalar}},
			Outputs: []catalog.OutputInfo{{Name: "value", Type: datatype.Scalar}}},
		"Color": {Name: "Color",
			Meta:    []catalog.MetaInfo{{Name: "color", Kind: catalog.Simple, Type: datatype.Color}},
			Outputs: []catalog.OutputInfo{{Name: "color", Type: datatype.Color}}},
		"Save": {Name: "Save",
			Meta:   []catalog.MetaInfo{{Name: "path", Kind: catalog.FilePath}},
			Inputs: []catalog.InputInfo{{Name: "texture", Type: datatype.Texture}}},
		"Mix": {Name: "Mix",
			Inputs:  []catalog.InputInfo{{Name: "a", Type: datatype.Scalar}, {Name: "b", Type: datatype.Scalar, Default: &scalar}},
			Outputs: []catalog.OutputInfo{{Name: "out", Type: datatype.Scalar}}},
	}
}

func seeded() Option {
	return WithRand(rand.New(rand.NewPCG(1, 2)))
}

func valueNode(g *Graph, f float64) NodeID {
	return g.Insert("Value", []cty.Value{cty.NumberFloatVal(f)}, nil)
}

func saveNode(g *Graph, path string) NodeID {
	return g.Insert("Save", []cty.Value{cty.StringVal(path)}, []SlotValue{UnsetSlot()})
}

func mixNode(g *Graph) NodeID {
	return g.Insert("Mix", nil, []SlotValue{UnsetSlot(), LiteralSlot(cty.NumberIntVal(1))})
}

func TestNewSeedsReservedNodes(t *testing.T) {
	g := New()
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []NodeID{InputID, OutputID}, g.IDs())

	in, ok := g.Node(InputID)
	require.True(t, ok)
	assert.Equal(t, InputNodeType, in.Type)
	assert.Empty(t, in.Inputs)

	out, ok := g.Node(OutputID)
	require.True(t, ok)
	assert.Equal(t, OutputNodeType, out.Type)
	require.Len(t, out.Inputs, 1)
	assert.Equal(t, Unset, out.Inputs[0].State())

	assert.Equal(t, "_input", InputID.String())
	assert.Equal(t, NewID("_output"), OutputID, "ids are interned")
}

func TestInsertGeneratesIDs(t *testing.T) {
	g := New(seeded())
	re := regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

	seen := map[NodeID]bool{}
	for i := 0; i < 50; i++ {
		id := valueNode(g, 0)
		assert.Regexp(t, re, id.String())
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, 52, g.Len())

	// Same seed, same ids.
	a, b := New(seeded()), New(seeded())
	assert.Equal(t, valueNode(a, 1), valueNode(b, 2))
}

func TestInsertRetriesOnCollision(t *testing.T) {
	first := randomID(rand.New(rand.NewPCG(1, 2)))

	g := New(seeded())
	g.nodes[NewID(first)] = &Node{Type: "Value"}

	id := valueNode(g, 0)
	assert.NotEqual(t, first, id.String())
	assert.Equal(t, 4, g.Len())
}

func TestInsertCopiesSlices(t *testing.T) {
	g := New()
	meta := []cty.Value{cty.NumberIntVal(1)}
	id := g.Insert("Value", meta, nil)
	meta[0] = cty.NumberIntVal(2)

	n, _ := g.Node(id)
	assert.True(t, cty.NumberIntVal(1).RawEquals(n.Meta[0]))
}

func TestInsertDefault(t *testing.T) {
	g := New()
	cat := testCatalog()

	id, err := g.InsertDefault("Mix", cat)
	require.NoError(t, err)
	n, _ := g.Node(id)
	require.Len(t, n.Inputs, 2)
	assert.Equal(t, Unset, n.Inputs[0].State())
	v, ok := n.Inputs[1].Value()
	require.True(t, ok)
	assert.True(t, cty.NumberIntVal(0).RawEquals(v))

	id, err = g.InsertDefault("Color", cat)
	require.NoError(t, err)
	n, _ = g.Node(id)
	require.Len(t, n.Meta, 1)
	assert.True(t, n.Meta[0].IsNull())

	_, err = g.InsertDefault("Nope", cat)
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestConnect(t *testing.T) {
	g := New()
	v := valueNode(g, 0.5)
	s := saveNode(g, "out.png")

	assert.False(t, g.Connect(NewID("ghost"), 0, s, 0), "unknown output node")
	assert.False(t, g.Connect(v, 0, NewID("ghost"), 0), "unknown input node")
	assert.False(t, g.Connect(v, 0, s, 1), "input slot out of range")
	assert.Empty(t, g.Connections())

	require.True(t, g.Connect(v, 0, s, 0))
	n, _ := g.Node(s)
	assert.Equal(t, Connected, n.Inputs[0].State())

	assert.False(t, g.Connect(v, 0, s, 0), "identical connection")
	other := valueNode(g, 0.7)
	assert.False(t, g.Connect(other, 0, s, 0), "second producer")
	assert.Len(t, g.Connections(), 1)

	conn, ok := g.SlotConnectedFrom(s, 0)
	require.True(t, ok)
	assert.Equal(t, Connection{Input: NodeAddress{Node: s, Slot: 0}, Output: NodeAddress{Node: v, Slot: 0}}, conn)

	_, ok = g.SlotConnectedFrom(v, 0)
	assert.False(t, ok)
}

func TestConnectOverwritesLiteral(t *testing.T) {
	g := New()
	v := valueNode(g, 0.5)
	m := mixNode(g)

	require.True(t, g.Connect(v, 0, m, 1))
	n, _ := g.Node(m)
	_, isLiteral := n.Inputs[1].Value()
	assert.False(t, isLiteral)
	assert.Equal(t, Connected, n.Inputs[1].State())
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog()

	g := New()
	v := valueNode(g, 0.123)
	s := saveNode(g, "out.png")
	require.True(t, g.Connect(v, 0, s, 0))

	fg, err := Finalize(ctx, g, cat)
	require.NoError(t, err)
	assert.Equal(t, 4, fg.Len())

	dt, ok := fg.SlotDataType(NodeAddress{Node: v, Slot: 0}, OutputSlot)
	require.True(t, ok)
	assert.Equal(t, datatype.Scalar, dt)
	dt, ok = fg.SlotDataType(NodeAddress{Node: s, Slot: 0}, InputSlot)
	require.True(t, ok)
	assert.Equal(t, datatype.Texture, dt)
	_, ok = fg.SlotDataType(NodeAddress{Node: s, Slot: 3}, InputSlot)
	assert.False(t, ok)
	_, ok = fg.SlotDataType(NodeAddress{Node: NewID("ghost")}, InputSlot)
	assert.False(t, ok)

	nt, ok := fg.NodeType(s)
	require.True(t, ok)
	assert.Equal(t, "Save", nt.Name)

	// Later authoring does not leak into the finalized snapshot.
	valueNode(g, 1)
	assert.Equal(t, 4, fg.Len())
	n, _ := g.Node(v)
	n.Meta[0] = cty.NumberIntVal(9)
	fn, _ := fg.Node(v)
	f, _ := fn.Meta[0].AsBigFloat().Float64()
	assert.Equal(t, 0.123, f)
}

func TestFinalizeErrors(t *testing.T) {
	testCases := []struct {
		name    string
		build   func(g *Graph)
		kind    error
		field   FieldType
		message string
	}{
		{
			name:    "unknown node type",
			build:   func(g *Graph) { g.Insert("Blur", nil, nil) },
			kind:    ErrInvalidNode,
			message: "invalid node type `Blur`",
		},
		{
			name:  "missing meta value",
			build: func(g *Graph) { g.Insert("Value", nil, nil) },
			kind:  ErrMissingValue,
			field: FieldMeta,
		},
		{
			name:  "extra meta value",
			build: func(g *Graph) { g.Insert("Value", []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}, nil) },
			kind:  ErrMissingValue,
			field: FieldMeta,
		},
		{
			name:  "missing input slot",
			build: func(g *Graph) { g.Insert("Save", []cty.Value{cty.StringVal("x")}, nil) },
			kind:  ErrMissingValue,
			field: FieldInput,
		},
		{
			name: "color does not broadcast to scalar",
			build: func(g *Graph) {
				c := g.Insert("Color", []cty.Value{cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2), cty.NumberIntVal(3), cty.NumberIntVal(4)})}, nil)
				m := mixNode(g)
				g.Connect(c, 0, m, 0)
			},
			kind:    ErrInvalidSlots,
			message: "Color does not broadcast to Scalar",
		},
		{
			name: "vec2 does not broadcast to texture",
			build: func(g *Graph) {
				g.Connect(InputID, 0, OutputID, 0)
			},
			kind:    ErrInvalidSlots,
			message: "Vec2 does not broadcast to Texture",
		},
		{
			name: "output slot out of range",
			build: func(g *Graph) {
				v := valueNode(g, 1)
				m := mixNode(g)
				g.Connect(v, 3, m, 0)
			},
			kind:    ErrInvalidSlots,
			message: "Value has 1 output slots",
		},
		{
			name: "two node cycle",
			build: func(g *Graph) {
				a, b := mixNode(g), mixNode(g)
				g.Connect(a, 0, b, 0)
				g.Connect(b, 0, a, 0)
			},
			kind: ErrCyclic,
		},
		{
			name: "self loop",
			build: func(g *Graph) {
				a := mixNode(g)
				g.Connect(a, 0, a, 0)
			},
			kind: ErrCyclic,
		},
		{
			name: "three node cycle behind a valid chain",
			build: func(g *Graph) {
				v := valueNode(g, 1)
				a, b, c := mixNode(g), mixNode(g), mixNode(g)
				g.Connect(v, 0, a, 1)
				g.Connect(a, 0, b, 0)
				g.Connect(b, 0, c, 0)
				g.Connect(c, 0, a, 0)
			},
			kind: ErrCyclic,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(seeded())
			tc.build(g)

			fg, err := Finalize(context.Background(), g, testCatalog())
			require.Error(t, err)
			assert.Nil(t, fg)
			assert.ErrorIs(t, err, tc.kind)

			var gErr *GraphError
			require.ErrorAs(t, err, &gErr)
			assert.Equal(t, tc.field, gErr.Field)
			if tc.message != "" {
				assert.ErrorContains(t, err, tc.message)
			}
		})
	}
}

func TestFinalizeAcceptsBroadcastableConnections(t *testing.T) {
	g := New()
	c := g.Insert("Color", []cty.Value{cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2), cty.NumberIntVal(3), cty.NumberIntVal(4)})}, nil)
	v := valueNode(g, 0.5)
	m := mixNode(g)
	require.True(t, g.Connect(c, 0, OutputID, 0))
	require.True(t, g.Connect(v, 0, m, 0))
	s := saveNode(g, "x.png")
	require.True(t, g.Connect(m, 0, s, 0))

	_, err := Finalize(context.Background(), g, testCatalog())
	assert.NoError(t, err)
}

func TestFinalizeUnknownConnectionNode(t *testing.T) {
	var g Graph
	require.NoError(t, json.Unmarshal([]byte(`{
		"nodes": {"m": {"node_type": "Mix", "meta": [], "inputs": ["Connected", "None"]}},
		"connections": [{"input": {"node": "m", "slot": 0}, "output": {"node": "ghost", "slot": 0}}]
	}`), &g))

	_, err := Finalize(context.Background(), &g, testCatalog())
	assert.ErrorIs(t, err, ErrInvalidNode)
	assert.ErrorContains(t, err, `unknown node "ghost"`)
}

func TestGraphError(t *testing.T) {
	err := &GraphError{Kind: ErrMissingValue, NodeID: NewID("abc"), NodeType: "Value", Field: FieldMeta, Want: 1, Got: 0}
	assert.Equal(t, "missing slot value for `Meta` on node abc (Value): want 1, got 0", err.Error())
	assert.Equal(t, "cyclical dependency found", (&GraphError{Kind: ErrCyclic}).Error())
}
