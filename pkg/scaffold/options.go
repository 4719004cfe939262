package scaffold

// Option configures Build.
type Option func(o *options)

type options struct {
	force bool
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithForce overwrites files that already exist in the target.
func WithForce(force bool) Option {
	return func(o *options) { o.force = force }
}
