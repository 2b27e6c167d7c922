package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/osmium/internal/app"
	"github.com/specialistvlad/osmium/internal/runctx"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Environment variables providing flag defaults.
const (
	EnvLogLevel    = "OSMIUM_LOG_LEVEL"
	EnvLogFormat   = "OSMIUM_LOG_FORMAT"
	EnvModulesPath = "OSMIUM_MODULES_PATH"
	EnvPreviewURL  = "OSMIUM_PREVIEW_URL"
)

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// sizeList collects repeated -size flags.
type sizeList []runctx.Context

func (s *sizeList) String() string {
	parts := make([]string, len(*s))
	for i, rc := range *s {
		parts[i] = rc.String()
	}
	return strings.Join(parts, ",")
}

func (s *sizeList) Set(v string) error {
	rc, err := ParseSize(v)
	if err != nil {
		return err
	}
	*s = append(*s, rc)
	return nil
}

// ParseSize parses a "WIDTHxHEIGHT" string such as "64x64".
func ParseSize(v string) (runctx.Context, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
	if !ok {
		return runctx.Context{}, fmt.Errorf("invalid size %q: expected WIDTHxHEIGHT", v)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return runctx.Context{}, fmt.Errorf("invalid size %q: bad width", v)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return runctx.Context{}, fmt.Errorf("invalid size %q: bad height", v)
	}
	rc := runctx.New(width, height)
	if err := rc.Validate(); err != nil {
		return runctx.Context{}, err
	}
	return rc, nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("osmium", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Osmium - A typed node-graph evaluator for procedural images.

Usage:
  osmium [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a persisted graph document (.json).

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph document.")
	gFlag := flagSet.String("g", "", "Path to the graph document (shorthand).")
	modulesPathFlag := flagSet.String("modules-path", envOr(EnvModulesPath, "modules"), "Path to the directory containing node manifests.")
	catalogFlag := flagSet.String("catalog", "", "Optional YAML node catalog file or directory.")
	widthFlag := flagSet.Int("width", 64, "Image width in pixels.")
	heightFlag := flagSet.Int("height", 64, "Image height in pixels.")
	var extraSizes sizeList
	flagSet.Var(&extraSizes, "size", "Additional WIDTHxHEIGHT to evaluate under. May be repeated.")
	logFormatFlag := flagSet.String("log-format", envOr(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	previewURLFlag := flagSet.String("preview-url", envOr(EnvPreviewURL, ""), "Default socket.io endpoint for Preview nodes.")
	previewTimeoutFlag := flagSet.Duration("preview-timeout", 10*time.Second, "How long a Preview node waits for its acknowledgement.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	sizes := append([]runctx.Context{runctx.New(*widthFlag, *heightFlag)}, extraSizes...)

	config, err := app.NewConfig(app.Config{
		GraphPath:      path,
		ModulesPath:    *modulesPathFlag,
		CatalogPath:    *catalogFlag,
		Sizes:          sizes,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		PreviewURL:     *previewURLFlag,
		PreviewTimeout: *previewTimeoutFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
