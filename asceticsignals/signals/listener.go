package signals

import (
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/eventtarget"
)

// listener bridges a Subscriber to the event target.
type listener[T any] struct {
	subscriber *Subscriber[T]
}

func newListener[T any](subscriber *Subscriber[T]) *listener[T] {
	return &listener[T]{subscriber: subscriber}
}

func (l *listener[T]) HandleEvent(event *eventtarget.Event[T]) error {
	return l.subscriber.deliver(event.Detail)
}
