package build

import (
	"fmt"
	"sync"
	"time"

	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/iofs"
	"github.com/olimci/hyoushi/pkg/manifest"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateStep        = fmt.Errorf("duplicate step")
	ErrSelfDependency       = fmt.Errorf("self dependency")
	ErrUnresolvedDependency = fmt.Errorf("unresolved dependency")
	ErrCircularDependency   = fmt.Errorf("circular dependency")
	ErrTaskError            = fmt.Errorf("task error")
	ErrBuildFailed          = fmt.Errorf("build failed")
)

// Build loads the configured site and builds it into its output directory.
func Build(opts ...Option) error {
	o := defaultOptions().Apply(opts...)

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	return Run(cfg, o)
}

// Run builds a site from an already loaded config.
func Run(cfg *config.Config, o *Options) error {
	if o == nil {
		o = defaultOptions()
	}
	if o.output != "" {
		cfg.Build.Output = o.output
	}
	if o.now.IsZero() {
		o.now = time.Now()
	}

	steps := []Step{
		StepStatic(),
		StepLoad(),
		StepImages(),
		StepEntries(),
		StepNotFound(),
	}
	if cfg.Feeds.RSS.Enable {
		steps = append(steps, StepRSS())
	}
	if cfg.Feeds.Sitemap.Enable {
		steps = append(steps, StepSitemap())
	}

	return buildSteps(steps, cfg, o)
}

// buildSteps builds a site from a DAG of steps.
func buildSteps(steps []Step, cfg *config.Config, options *Options) error {
	collector := events.NewCollector(options.handler)

	man := manifest.New()
	manifest.SetAs(man, ConfigK, cfg)
	manifest.SetAs(man, OptionsK, options)

	if err := runSteps(steps, man, options, collector); err != nil {
		return err
	}

	manifestOpts := []manifest.Option{
		manifest.WithMaxWorkers(options.maxWorkers),
	}
	if options.Dev {
		manifestOpts = append(manifestOpts, manifest.IgnoreConflicts())
	}

	if err := man.Build(options.context, iofs.FromOS(cfg.Build.Output), collector, manifestOpts...); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	failLevel := events.Error
	if options.Strict {
		failLevel = events.Warn
	}
	if collector.HasLevel(failLevel) {
		return fmt.Errorf("%w: %s", ErrBuildFailed, collector.Summary())
	}

	return nil
}

func runSteps(steps []Step, man *manifest.Manifest, options *Options, handler events.Handler) error {
	dag, err := newDAG(steps)
	if err != nil {
		return err
	}

	var ready []string
	for id, d := range dag.deg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	if len(ready) == 0 && len(steps) > 0 {
		return ErrCircularDependency
	}

	g, ctx := errgroup.WithContext(options.context)

	// Workers schedule their dependants, so the group itself is unbounded
	// and the limit applies to running step bodies only.
	limit := options.maxWorkers
	if limit <= 0 {
		limit = len(steps)
	}
	sem := make(chan struct{}, max(limit, 1))

	var (
		mu       sync.Mutex
		done     int
		schedule func(id string)
	)

	schedule = func(id string) {
		step := dag.m[id]
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sem <- struct{}{}:
			}

			sc := StepContext{
				Ctx:      ctx,
				Manifest: man,
				Options:  options,
				StepID:   step.ID,
				events:   handler,
			}

			err := step.Fn(&sc)
			<-sem
			if err != nil {
				return fmt.Errorf("%w (%s): %w", ErrTaskError, step.ID, err)
			}

			var next []string
			mu.Lock()
			done++
			for _, req := range dag.adj[step.ID] {
				dag.deg[req]--
				if dag.deg[req] == 0 {
					next = append(next, req)
				}
			}
			mu.Unlock()

			for _, id := range next {
				schedule(id)
			}

			return nil
		})
	}

	for _, id := range ready {
		schedule(id)
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if done != len(steps) {
		var stuck []string
		for id, d := range dag.deg {
			if d != 0 {
				stuck = append(stuck, id)
			}
		}
		return fmt.Errorf("%w: %v", ErrCircularDependency, stuck)
	}

	return nil
}
