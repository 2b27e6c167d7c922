package runctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	c := New(64, 32)
	assert.Equal(t, 2048, c.Pixels())
	assert.Equal(t, "64x32", c.String())
	assert.NoError(t, c.Validate())

	assert.ErrorContains(t, New(0, 16).Validate(), "invalid image dimensions")
	assert.Error(t, New(16, -1).Validate())
}
