package signals

var (
	_ Subscribable[struct{}] = (*ProtectedSignalImp[struct{}])(nil)
	_ Activable[struct{}]    = (*ProtectedSignalController[struct{}])(nil)
)

// ProtectedSignalImp is the observer facet of a ProtectedSignalController.
// It can be subscribed to but not activated.
type ProtectedSignalImp[T any] struct {
	*subscribable[T]
}

// ProtectedSignalController keeps activation rights for itself and hands out
// its Signal to observers. Activations go through the dispatcher the
// protected signal subscribes on.
//
//	type Counter struct {
//		changed *signals.ProtectedSignalController[int]
//		value   int
//	}
//
//	func (c *Counter) OnChanged() *signals.ProtectedSignalImp[int] {
//		return c.changed.Signal()
//	}
//
//	func (c *Counter) Increment() error {
//		c.value++
//		return c.changed.Activate(c.value)
//	}
type ProtectedSignalController[T any] struct {
	signal *ProtectedSignalImp[T]
}

func NewProtectedSignalController[T any](opts ...DispatcherOption) *ProtectedSignalController[T] {
	return &ProtectedSignalController[T]{
		signal: &ProtectedSignalImp[T]{subscribable: newSubscribable(NewDispatcher[T](opts...))},
	}
}

// Signal returns the paired protected signal, the same one on every call.
func (c *ProtectedSignalController[T]) Signal() *ProtectedSignalImp[T] {
	return c.signal
}

// Activate has the semantics of SignalImp.Activate.
func (c *ProtectedSignalController[T]) Activate(payload ...T) error {
	return c.signal.activate(payload)
}

func (c *ProtectedSignalController[T]) UnsubscribeAll() {
	c.signal.unsubscribeAll()
}

func (c *ProtectedSignalController[T]) Len() int {
	return c.signal.len()
}
