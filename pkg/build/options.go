package build

import (
	"context"
	"runtime"
	"time"

	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/view"
)

func defaultOptions() *Options {
	return &Options{
		context:    context.Background(),
		configPath: "hyoushi.toml",
		maxWorkers: runtime.NumCPU(),
		handler:    events.NoopHandler{},
		picker:     view.DefaultPicker,
	}
}

type Options struct {
	context    context.Context
	configPath string
	output     string
	maxWorkers int
	handler    events.Handler
	picker     view.Picker
	now        time.Time

	// Dev demotes per-file errors to warnings and tolerates conflicting
	// artefacts, so the dev server keeps serving a partial site.
	Dev bool
	// Strict fails the build on warnings and microformat findings.
	Strict bool
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	return defaultOptions().Apply(opts...)
}

func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Lenient reports whether step errors should be demoted to warnings.
func (o *Options) Lenient() bool {
	return o.Dev && !o.Strict
}

type Option func(*Options)

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.context = ctx
	}
}

func WithConfig(path string) Option {
	return func(o *Options) {
		o.configPath = path
	}
}

// WithOutput overrides build.output from the config.
func WithOutput(dir string) Option {
	return func(o *Options) {
		o.output = dir
	}
}

func WithMaxWorkers(n int) Option {
	return func(o *Options) {
		o.maxWorkers = n
	}
}

func WithHandler(h events.Handler) Option {
	return func(o *Options) {
		if h != nil {
			o.handler = h
		}
	}
}

// WithPicker sets the source of footer flavor choices.
func WithPicker(p view.Picker) Option {
	return func(o *Options) {
		if p != nil {
			o.picker = p
		}
	}
}

// WithBuildTime pins the time stamped into feeds.
func WithBuildTime(t time.Time) Option {
	return func(o *Options) {
		o.now = t
	}
}

func WithDev() Option {
	return func(o *Options) {
		o.Dev = true
	}
}

func WithStrict() Option {
	return func(o *Options) {
		o.Strict = true
	}
}
