package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/datatype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name, "manifest.hcl")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "value", `
node "Value" {
  display_name = "Constant"

  meta "value" {
    type    = scalar
    default = 0.5
  }

  output "value" {
    type = scalar
  }
}
`)
	writeManifest(t, dir, "save", `
node "Save" {
  meta "path" {
    type = file_path
  }

  input "texture" {
    type    = "texture"
    default = null
  }
}

node "Tint" {
  meta "label" {
    type = text
  }
  input "color" {
    type    = color
    default = [255, 0, 0, 255]
  }
  input "offset" {
    type = vec2
  }
  output "color" {
    type = vec3
  }
}
`)

	cat, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Save", "Tint", "Value"}, cat.Names())

	value := cat["Value"]
	assert.Equal(t, "Constant", value.DisplayName)
	require.Len(t, value.Meta, 1)
	assert.Equal(t, catalog.Simple, value.Meta[0].Kind)
	assert.Equal(t, datatype.Scalar, value.Meta[0].Type)
	require.NotNil(t, value.Meta[0].Default)
	f, _ := value.Meta[0].Default.AsBigFloat().Float64()
	assert.Equal(t, 0.5, f)
	assert.Equal(t, []catalog.OutputInfo{{Name: "value", Type: datatype.Scalar}}, value.Outputs)

	save := cat["Save"]
	assert.Equal(t, "Save", save.DisplayName, "display name defaults to the type name")
	assert.Equal(t, catalog.FilePath, save.Meta[0].Kind)
	require.Len(t, save.Inputs, 1)
	assert.Equal(t, datatype.Texture, save.Inputs[0].Type)
	assert.Nil(t, save.Inputs[0].Default, "null default means no default")
	assert.Empty(t, save.Outputs)

	tint := cat["Tint"]
	assert.Equal(t, catalog.Text, tint.Meta[0].Kind)
	require.Len(t, tint.Inputs, 2)
	assert.Equal(t, datatype.Color, tint.Inputs[0].Type)
	require.NotNil(t, tint.Inputs[0].Default)
	px, err := datatype.ColorOf(*tint.Inputs[0].Default)
	require.NoError(t, err)
	assert.Equal(t, datatype.Pixel{255, 0, 0, 255}, px)
	assert.Equal(t, datatype.Vec2, tint.Inputs[1].Type)
	assert.Equal(t, datatype.Vec3, tint.Outputs[0].Type)
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "one", `node "Input" {
  output "size" {
    type = vec2
  }
}`)

	cat, err := NewLoader().Load(context.Background(), path, path)
	require.NoError(t, err)
	require.Contains(t, cat, "Input")
	assert.Len(t, cat, 1, "the same file given twice is loaded once")
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown data type",
			content: `node "A" { output "x" { type = matrix } }`,
			errMsg:  `unknown data type "matrix"`,
		},
		{
			name:    "file_path is meta only",
			content: `node "A" { input "x" { type = file_path } }`,
			errMsg:  `unknown data type "file_path"`,
		},
		{
			name:    "dotted keyword",
			content: `node "A" { output "x" { type = scalar.value } }`,
			errMsg:  "not a single identifier",
		},
		{
			name:    "duplicate slot",
			content: `node "A" {
  input "x" { type = scalar }
  input "x" { type = vec2 }
}`,
			errMsg: `duplicate input "x"`,
		},
		{
			name:    "duplicate node type",
			content: `node "A" {}
node "A" {}`,
			errMsg: "duplicate node type",
		},
		{
			name:    "missing type",
			content: `node "A" { output "x" {} }`,
			errMsg:  "failed to decode",
		},
		{
			name:    "syntax error",
			content: `node "A" {`,
			errMsg:  "failed to parse",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, "a", tc.content)

			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestLoadDuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", `node "Same" {}`)
	writeManifest(t, dir, "b", `node "Same" {}`)

	_, err := NewLoader().Load(context.Background(), dir)
	assert.ErrorIs(t, err, catalog.ErrDuplicateNodeType)
}

func TestLoadMissingPath(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", `node "A" {}`)
	missing := filepath.Join(dir, "missing")

	_, err := NewLoader().Load(context.Background(), dir, missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, missing)
}
