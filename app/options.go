package app

import (
	"time"

	"github.com/kbukum/focusgroup/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger *logger.Logger
	clock  func() time.Time
	header bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, one is built from the
// config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithClock overrides the time source stamped on transcripts.
func WithClock(now func() time.Time) Option {
	return func(o *appOptions) { o.clock = now }
}

// WithExportHeader prepends the study header to exported artifacts.
func WithExportHeader() Option {
	return func(o *appOptions) { o.header = true }
}
