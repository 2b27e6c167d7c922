package graphfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/osmium/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func sample(t *testing.T) (*graph.Graph, graph.NodeID, graph.NodeID) {
	t.Helper()
	g := graph.New()
	v := g.Insert("Value", []cty.Value{cty.NumberFloatVal(0.25)}, nil)
	s := g.Insert("Save", []cty.Value{cty.StringVal("./out.png")}, []graph.SlotValue{graph.UnsetSlot()})
	require.True(t, g.Connect(v, 0, s, 0))
	return g, v, s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	g, v, s := sample(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	require.NoError(t, Save(ctx, path, g))
	got, err := Load(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, g.Len(), got.Len())
	assert.Equal(t, g.Connections(), got.Connections())

	n, ok := got.Node(s)
	require.True(t, ok)
	assert.Equal(t, "Save", n.Type)
	assert.Equal(t, graph.Connected, n.Inputs[0].State())
	assert.Equal(t, "./out.png", n.Meta[0].AsString())

	n, ok = got.Node(v)
	require.True(t, ok)
	f, _ := n.Meta[0].AsBigFloat().Float64()
	assert.Equal(t, 0.25, f)
}

func TestWriteIsIndented(t *testing.T) {
	g, _, _ := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "\n  \"connections\"")
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	assert.ErrorContains(t, err, "failed to decode graph document")

	_, err = Read(strings.NewReader(`{"nodes": {}, "connections": [
		{"input": {"node": "a", "slot": 0}, "output": {"node": "b", "slot": 0}},
		{"input": {"node": "a", "slot": 0}, "output": {"node": "c", "slot": 0}}
	]}`))
	assert.ErrorContains(t, err, "already connected")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
