package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/osmium/internal/hcl"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The run
// summary and the logs are captured in separate buffers.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(outBuffer, logBuffer, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("OSMIUM_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
