package registry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func echo(_ context.Context, meta, inputs []cty.Value, _ runctx.Context) ([]cty.Value, error) {
	return append(append([]cty.Value{}, meta...), inputs...), nil
}

type echoModule struct{ name string }

func (m echoModule) Register(r *Registry) { r.Register(m.name, echo) }

func TestRegisterAndDispatch(t *testing.T) {
	r := NewWithModules(echoModule{"Value"}, echoModule{"Output"})
	assert.Equal(t, []string{"Output", "Value"}, r.Names())

	out, err := r.Dispatch(context.Background(), "Value",
		[]cty.Value{cty.NumberIntVal(1)}, []cty.Value{cty.StringVal("x")}, runctx.New(1, 1))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, cty.NumberIntVal(1).RawEquals(out[0]))
	assert.True(t, cty.StringVal("x").RawEquals(out[1]))
}

func TestDispatchUnknown(t *testing.T) {
	_, err := New().Dispatch(context.Background(), "Blur", nil, nil, runctx.New(1, 1))
	assert.ErrorIs(t, err, ErrUnknownBehavior)
	assert.ErrorContains(t, err, "`Blur`")
}

func TestDispatchPropagatesBehaviorError(t *testing.T) {
	boom := errors.New("boom")
	r := New()
	r.Register("Bad", func(context.Context, []cty.Value, []cty.Value, runctx.Context) ([]cty.Value, error) {
		return nil, boom
	})
	_, err := r.Dispatch(context.Background(), "Bad", nil, nil, runctx.New(1, 1))
	assert.ErrorIs(t, err, boom)
}

func TestRegisterPanics(t *testing.T) {
	r := New()
	r.Register("Value", echo)
	assert.Panics(t, func() { r.Register("Value", echo) })
	assert.Panics(t, func() { r.Register("Nil", nil) })
}

func TestValidateRegistry(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	cat := catalog.Catalog{
		"Value": {Name: "Value"},
		"Save":  {Name: "Save"},
	}

	r := NewWithModules(echoModule{"Value"}, echoModule{"Save"}, echoModule{"Extra"})
	require.NoError(t, r.ValidateRegistry(ctx, cat))
	assert.Contains(t, buf.String(), "node_type=Extra")

	r = NewWithModules(echoModule{"Value"})
	err := r.ValidateRegistry(ctx, cat)
	assert.ErrorIs(t, err, ErrMissingBehavior)
	assert.ErrorContains(t, err, "- Save")
}
