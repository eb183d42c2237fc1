package eventtarget

// Event is the envelope carried to listeners of one named channel.
type Event[T any] struct {
	Type       string
	Detail     T
	Cancelable bool

	defaultPrevented bool
	inPassive        bool
}

func NewEvent[T any](eventType string, detail T, cancelable bool) *Event[T] {
	return &Event[T]{
		Type:       eventType,
		Detail:     detail,
		Cancelable: cancelable,
	}
}

// PreventDefault cancels the event. It has no effect on non-cancelable events
// or when called from a passive listener.
func (e *Event[T]) PreventDefault() {
	if e.Cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

func (e *Event[T]) DefaultPrevented() bool {
	return e.defaultPrevented
}

type Listener[T any] interface {
	HandleEvent(event *Event[T]) error
}

type funcListener[T any] struct {
	fn func(event *Event[T]) error
}

func (l *funcListener[T]) HandleEvent(event *Event[T]) error {
	return l.fn(event)
}

// ListenerFunc adapts fn to a Listener. Every call returns a distinct listener,
// so keep the result to remove it later.
func ListenerFunc[T any](fn func(event *Event[T]) error) Listener[T] {
	return &funcListener[T]{fn: fn}
}
