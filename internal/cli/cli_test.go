package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/specialistvlad/osmium/internal/runctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv(EnvModulesPath, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvPreviewURL, "")

	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-width", "32", "-height", "16", "-size", "8x4", "-size", "2X2", "graph.json"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "graph.json", cfg.GraphPath)
	assert.Equal(t, "modules", cfg.ModulesPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.PreviewTimeout)
	assert.Equal(t, []runctx.Context{runctx.New(32, 16), runctx.New(8, 4), runctx.New(2, 2)}, cfg.Sizes)
}

func TestParseGraphFlagWins(t *testing.T) {
	cfg, _, err := Parse([]string{"-g", "short.json", "positional.json"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "short.json", cfg.GraphPath)

	cfg, _, err = Parse([]string{"-graph", "long.json", "-g", "short.json"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "long.json", cfg.GraphPath)
}

func TestParseEnvironmentDefaults(t *testing.T) {
	t.Setenv(EnvModulesPath, "/opt/osmium/modules")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvPreviewURL, "http://localhost:3000")

	cfg, _, err := Parse([]string{"g.json"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "/opt/osmium/modules", cfg.ModulesPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://localhost:3000", cfg.PreviewURL)

	// Flags override the environment.
	cfg, _, err = Parse([]string{"-log-level", "warn", "g.json"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseExits(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")

	out.Reset()
	_, exit, err = Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"bad format", []string{"-log-format", "xml", "g.json"}, "invalid log-format"},
		{"bad level", []string{"-log-level", "loud", "g.json"}, "invalid log-level"},
		{"bad size", []string{"-size", "12", "g.json"}, "expected WIDTHxHEIGHT"},
		{"zero width", []string{"-width", "0", "g.json"}, "invalid image dimensions 0x64"},
		{"negative timeout", []string{"-preview-timeout", "-1s", "g.json"}, "must not be negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParseSize(t *testing.T) {
	rc, err := ParseSize(" 640x480 ")
	require.NoError(t, err)
	assert.Equal(t, runctx.New(640, 480), rc)

	for _, bad := range []string{"", "x", "10x", "ax10", "10x-1", "0x0"} {
		_, err := ParseSize(bad)
		assert.Error(t, err, bad)
	}
}
