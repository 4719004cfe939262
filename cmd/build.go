package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/olimci/hyoushi/cmd/internal"
)

// Build performs a single build of the site.
func Build(ctx context.Context, logger *log.Logger, configPath, distDir string, strict bool) error {
	builder := internal.NewBuilder(configPath, distDir, strict)

	result := builder.Build(ctx, false, internal.EventLogger(logger))
	if result.Error != nil {
		if result.Summary != nil && len(result.Summary.Problems) > 0 {
			logger.Error("build failed", "events", result.Summary.String())
		}
		return fmt.Errorf("build failed: %w", result.Error)
	}

	output := distDir
	if cfg, err := builder.Config(); err == nil {
		output = cfg.Build.Output
	}

	logSummary(logger, result.Summary, result.Duration, output)
	return nil
}
