package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/osmium/internal/runctx"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath   string // persisted graph document
	ModulesPath string // hcl manifests
	CatalogPath string // optional yaml catalog, merged with the manifests

	// Sizes lists the dimensions to evaluate the graph under. The graph is
	// run once per entry. With more than one entry, saved file names carry
	// the size.
	Sizes []runctx.Context

	LogFormat string
	LogLevel  string

	PreviewURL     string
	PreviewTimeout time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.ModulesPath == "" && cfg.CatalogPath == "" {
		return nil, errors.New("at least one of ModulesPath or CatalogPath must be set")
	}
	if len(cfg.Sizes) == 0 {
		return nil, errors.New("at least one image size is required")
	}
	seen := make(map[runctx.Context]struct{}, len(cfg.Sizes))
	for _, rc := range cfg.Sizes {
		if err := rc.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[rc]; ok {
			return nil, fmt.Errorf("image size %s is listed twice", rc)
		}
		seen[rc] = struct{}{}
	}
	if cfg.PreviewTimeout < 0 {
		return nil, fmt.Errorf("preview timeout must not be negative, got %s", cfg.PreviewTimeout)
	}

	cfg.Sizes = append([]runctx.Context(nil), cfg.Sizes...)
	return &cfg, nil
}
