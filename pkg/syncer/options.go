package syncer

import "time"

// Options controls a single sync run.
type Options struct {
	// DryRun computes and reports intended actions without calling the
	// store's write operation.
	DryRun bool

	// Timeout bounds the entire run. Zero means no overall deadline;
	// individual remote calls still carry the transport's own timeout.
	Timeout time.Duration
}

// Option is a function that configures run Options.
type Option func(*Options)

// Defaults returns the default run options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithTimeout configures the overall run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}
