package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/olimci/hyoushi/pkg/build"
	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/events"
)

type Builder struct {
	configPath string
	distDir    string
	strict     bool
}

type BuildResult struct {
	Duration time.Duration
	Error    error
	Reason   string
	Paths    []string
	Number   int
	Summary  *events.Summary
}

func NewBuilder(configPath, distDir string, strict bool) *Builder {
	return &Builder{
		configPath: configPath,
		distDir:    distDir,
		strict:     strict,
	}
}

// Config loads the config the builder builds from, with the dist override
// applied.
func (b *Builder) Config() (*config.Config, error) {
	cfg, err := config.Load(b.configPath)
	if err != nil {
		return nil, err
	}
	if b.distDir != "" {
		cfg.Build.Output = b.distDir
	}
	return cfg, nil
}

// Build runs one build. The config is reloaded every time so edits to it
// apply on the next rebuild.
func (b *Builder) Build(ctx context.Context, dev bool, handler events.Handler) BuildResult {
	start := time.Now()
	collector := events.NewCollector(handler)

	cfg, err := b.Config()
	if err != nil {
		return BuildResult{
			Duration: time.Since(start),
			Error:    fmt.Errorf("failed to load config: %w", err),
		}
	}

	opts := []build.Option{
		build.WithContext(ctx),
		build.WithHandler(collector),
	}
	if cfg.Build.MaxWorkers > 0 {
		opts = append(opts, build.WithMaxWorkers(cfg.Build.MaxWorkers))
	}
	if dev {
		opts = append(opts, build.WithDev())
	}
	if b.strict {
		opts = append(opts, build.WithStrict())
	}

	err = build.Run(cfg, build.NewOptions(opts...))

	return BuildResult{
		Duration: time.Since(start),
		Error:    err,
		Summary:  collector.Summary(),
	}
}
