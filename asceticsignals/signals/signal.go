package signals

var _ Signal[struct{}] = (*SignalImp[struct{}])(nil)

// SignalImp is an open signal: whoever holds it may subscribe and activate.
type SignalImp[T any] struct {
	*subscribable[T]
}

func NewSignal[T any](opts ...DispatcherOption) *SignalImp[T] {
	return &SignalImp[T]{subscribable: newSubscribable(NewDispatcher[T](opts...))}
}

// Activate delivers payload[0], or the zero value of T when called without a
// payload, to every subscriber in subscription order. The first subscriber
// error stops delivery and is returned. Signal broadcasts are not cancelable,
// so the dispatcher's not-canceled result is always true and is dropped.
func (s *SignalImp[T]) Activate(payload ...T) error {
	return s.activate(payload)
}

// UnsubscribeAll drops every subscription.
func (s *SignalImp[T]) UnsubscribeAll() {
	s.unsubscribeAll()
}

// Len returns the number of live subscriptions.
func (s *SignalImp[T]) Len() int {
	return s.len()
}
