package signals

// Callback is the function form of a subscriber.
type Callback[T any] func(payload T) error

// Handler is the object form of a subscriber.
type Handler[T any] interface {
	HandleSignal(payload T) error
}

// Subscriber is either a Callback or a Handler. The pointer returned by
// FromFunc or FromHandler is the subscriber's identity: pass the same pointer
// to Unsubscribe.
type Subscriber[T any] struct {
	callback Callback[T]
	handler  Handler[T]
}

func FromFunc[T any](callback func(payload T) error) *Subscriber[T] {
	if callback == nil {
		panic("signals: nil callback")
	}
	return &Subscriber[T]{callback: callback}
}

func FromHandler[T any](handler Handler[T]) *Subscriber[T] {
	if handler == nil {
		panic("signals: nil handler")
	}
	return &Subscriber[T]{handler: handler}
}

func (s *Subscriber[T]) deliver(payload T) error {
	if s.callback != nil {
		return s.callback(payload)
	}
	return s.handler.HandleSignal(payload)
}
