package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/osmium/internal/catalog"
	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/yamlcatalog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	catalog  catalog.Catalog
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Logs go to logW; outW only receives the run summary.
// The node catalog is read from cfg.ModulesPath with loader, and from
// cfg.CatalogPath when set. With no modules given, the core modules are
// registered.
func NewApp(outW, logW io.Writer, cfg *Config, loader catalog.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cat, err := loadCatalog(ctx, cfg, loader)
	if err != nil {
		// A failure to load the catalog is a fatal startup error.
		panic(fmt.Errorf("failed to load node catalog: %w", err))
	}
	logger.Debug("Node catalog loaded.", "node_types", len(cat))

	if len(modules) == 0 {
		modules = coreModules(cfg)
	}
	reg := registry.NewWithModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Catalog entries without a behavior are a mismatch between code and
	// manifests.
	if err := reg.ValidateRegistry(ctx, cat); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		catalog:  cat,
		config:   cfg,
	}
}

func loadCatalog(ctx context.Context, cfg *Config, loader catalog.Loader) (catalog.Catalog, error) {
	var parts []catalog.Catalog
	if cfg.ModulesPath != "" {
		cat, err := loader.Load(ctx, cfg.ModulesPath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, cat)
	}
	if cfg.CatalogPath != "" {
		cat, err := yamlcatalog.NewLoader().Load(ctx, cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, cat)
	}
	return catalog.Merge(parts...)
}

// Catalog returns the loaded node catalog.
func (a *App) Catalog() catalog.Catalog {
	return a.catalog
}
