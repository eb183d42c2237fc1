package signals

import (
	"context"
	"log/slog"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/cancellation"
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/eventtarget"
)

type SubscribeOption func(o *eventtarget.ListenerOptions)

// Once removes the subscription after its first delivery.
func Once() SubscribeOption {
	return func(o *eventtarget.ListenerOptions) {
		o.Once = true
	}
}

// Passive is accepted for compatibility. Activations are never cancelable,
// so it changes nothing.
func Passive() SubscribeOption {
	return func(o *eventtarget.ListenerOptions) {
		o.Passive = true
	}
}

// WithCancel ends the subscription when handle triggers.
func WithCancel(handle cancellation.Handle) SubscribeOption {
	return func(o *eventtarget.ListenerOptions) {
		o.Cancel = handle
	}
}

// WithContext ends the subscription when ctx is done.
func WithContext(ctx context.Context) SubscribeOption {
	return WithCancel(cancellation.FromContext(ctx))
}

func subscribeOptions(opts []SubscribeOption) eventtarget.ListenerOptions {
	var o eventtarget.ListenerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type UnsubscribeOption func(o *eventtarget.RemoveOptions)

// Capture is accepted for compatibility and ignored.
func Capture() UnsubscribeOption {
	return func(o *eventtarget.RemoveOptions) {
		o.Capture = true
	}
}

func unsubscribeOptions(opts []UnsubscribeOption) eventtarget.RemoveOptions {
	var o eventtarget.RemoveOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type DispatcherOptions struct {
	label  string
	logger *slog.Logger
}

type DispatcherOption func(o *DispatcherOptions)

func (o *DispatcherOptions) Apply(opts ...DispatcherOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithLabel prefixes the implicit channel name, which shows up in logs and
// listener errors.
func WithLabel(label string) DispatcherOption {
	return func(o *DispatcherOptions) {
		o.label = label
	}
}

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(o *DispatcherOptions) {
		o.logger = l
	}
}
