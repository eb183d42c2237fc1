package eventtarget

import (
	"log/slog"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/cancellation"
)

// ListenerOptions controls one registration.
type ListenerOptions struct {
	// Once removes the listener before its first invocation.
	Once bool
	// Passive listeners cannot prevent default.
	Passive bool
	// Cancel removes the listener when it triggers. A handle that has already
	// triggered makes the registration a no-op.
	Cancel cancellation.Handle
}

// RemoveOptions exists for symmetry with ListenerOptions. Capture is accepted
// and ignored: a target has no capture phase.
type RemoveOptions struct {
	Capture bool
}

type Options struct {
	logger *slog.Logger
}

type Option func(o *Options)

func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func defaultOptions() *Options {
	return &Options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger enables debug traces of listener lifecycle and dispatches.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
