package signals

import (
	"github.com/google/uuid"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/eventtarget"
)

// Dispatcher is an event target reduced to a single implicit channel.
type Dispatcher[T any] struct {
	target  *eventtarget.Target[T]
	channel string
}

func NewDispatcher[T any](opts ...DispatcherOption) *Dispatcher[T] {
	options := &DispatcherOptions{}
	options.Apply(opts...)
	return newDispatcher(eventtarget.NewTarget[T](eventtarget.WithLogger(options.logger)), options)
}

// NewSharedDispatcher places the dispatcher's channel on an existing target.
// Each dispatcher gets its own channel name, so dispatchers sharing a target
// never see each other's listeners.
func NewSharedDispatcher[T any](target *eventtarget.Target[T], opts ...DispatcherOption) *Dispatcher[T] {
	options := &DispatcherOptions{}
	options.Apply(opts...)
	return newDispatcher(target, options)
}

func newDispatcher[T any](target *eventtarget.Target[T], options *DispatcherOptions) *Dispatcher[T] {
	channel := uuid.NewString()
	if options.label != "" {
		channel = options.label + "#" + channel
	}
	return &Dispatcher[T]{target: target, channel: channel}
}

func (d *Dispatcher[T]) Channel() string {
	return d.channel
}

func (d *Dispatcher[T]) Register(l eventtarget.Listener[T], opts eventtarget.ListenerOptions) bool {
	return d.target.AddListener(d.channel, l, opts)
}

func (d *Dispatcher[T]) Remove(l eventtarget.Listener[T], opts eventtarget.RemoveOptions) bool {
	return d.target.RemoveListener(d.channel, l, opts)
}

// Broadcast delivers payload to every registered listener. Broadcasts are not
// cancelable, so notCanceled is always true.
func (d *Dispatcher[T]) Broadcast(payload T) (notCanceled bool, err error) {
	return d.target.Dispatch(eventtarget.NewEvent(d.channel, payload, false))
}

func (d *Dispatcher[T]) Len() int {
	return d.target.Len(d.channel)
}

func (d *Dispatcher[T]) Clear() int {
	return d.target.RemoveAll(d.channel)
}
