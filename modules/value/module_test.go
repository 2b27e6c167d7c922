package value

import (
	"context"
	"testing"

	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestPassthrough(t *testing.T) {
	meta := []cty.Value{cty.NumberFloatVal(0.5)}
	inputs := []cty.Value{cty.StringVal("a"), cty.True}

	out, err := Passthrough(context.Background(), meta, inputs, runctx.New(1, 1))
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.True(t, meta[0].RawEquals(out[0]))
	assert.True(t, inputs[0].RawEquals(out[1]))
	assert.True(t, inputs[1].RawEquals(out[2]))

	out, err = Passthrough(context.Background(), nil, nil, runctx.New(1, 1))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRegister(t *testing.T) {
	r := registry.NewWithModules(&Module{})
	out, err := r.Dispatch(context.Background(), "Value", []cty.Value{cty.NumberIntVal(7)}, nil, runctx.New(1, 1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, cty.NumberIntVal(7).RawEquals(out[0]))
}
