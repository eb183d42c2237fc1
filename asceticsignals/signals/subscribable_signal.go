package signals

import (
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/disposable"
)

// subscribable is the subscription half shared by every signal flavour.
// Only owners reach unsubscribeAll and len.
type subscribable[T any] struct {
	dispatcher *Dispatcher[T]
	registry   *registry[T]
}

func newSubscribable[T any](dispatcher *Dispatcher[T]) *subscribable[T] {
	return &subscribable[T]{
		dispatcher: dispatcher,
		registry:   newRegistry[T](),
	}
}

// Subscribe registers subscriber for future activations. Subscribing the
// same subscriber again while it is registered changes nothing. The returned
// Disposable unsubscribes it.
func (s *subscribable[T]) Subscribe(subscriber *Subscriber[T], opts ...SubscribeOption) disposable.Disposable {
	if subscriber == nil {
		panic("signals: nil subscriber")
	}
	s.dispatcher.Register(s.registry.resolve(subscriber), subscribeOptions(opts))
	return disposable.NewDisposable(func() {
		s.Unsubscribe(subscriber)
	})
}

// Unsubscribe removes subscriber. Unknown subscribers are ignored.
func (s *subscribable[T]) Unsubscribe(subscriber *Subscriber[T], opts ...UnsubscribeOption) {
	if subscriber == nil {
		return
	}
	if l, ok := s.registry.lookup(subscriber); ok {
		s.dispatcher.Remove(l, unsubscribeOptions(opts))
	}
	s.registry.forget(subscriber)
}

func (s *subscribable[T]) unsubscribeAll() {
	s.dispatcher.Clear()
	s.registry.clear()
}

func (s *subscribable[T]) len() int {
	return s.dispatcher.Len()
}

func (s *subscribable[T]) activate(payload []T) error {
	var detail T
	if len(payload) > 0 {
		detail = payload[0]
	}
	_, err := s.dispatcher.Broadcast(detail)
	return err
}
