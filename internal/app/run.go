package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/specialistvlad/osmium/internal/exec"
	"github.com/specialistvlad/osmium/internal/graph"
	"github.com/specialistvlad/osmium/internal/graphfile"
)

// Run loads the configured graph, finalizes it against the catalog,
// evaluates it once per configured size and writes the results to the
// app's output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := graphfile.Load(ctx, a.config.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	fg, err := graph.Finalize(ctx, g, a.catalog)
	if err != nil {
		return fmt.Errorf("failed to finalize graph: %w", err)
	}
	a.logger.Info("Graph finalized.", "nodes", fg.Len(), "connections", len(fg.Connections()))

	a.logger.Info("🚀 Starting evaluation...", "runs", len(a.config.Sizes))
	results, err := exec.RunAll(ctx, fg, a.registry, a.config.Sizes...)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Evaluation finished.")

	if err := writeSummary(a.outW, a.config.Sizes, results); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
