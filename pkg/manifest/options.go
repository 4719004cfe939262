package manifest

import "runtime"

func defaultOptions() *options {
	return &options{
		maxWorkers:      runtime.NumCPU(),
		ignoreConflicts: false,
	}
}

type options struct {
	maxWorkers      int
	ignoreConflicts bool
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*options)

func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// IgnoreConflicts reports conflicting claims instead of failing the build.
// The last emitted artefact for a target wins.
func IgnoreConflicts() Option {
	return func(o *options) {
		o.ignoreConflicts = true
	}
}
