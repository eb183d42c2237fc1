package signals

import (
	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/disposable"
)

type Subscribable[T any] interface {
	Subscribe(subscriber *Subscriber[T], opts ...SubscribeOption) disposable.Disposable
	Unsubscribe(subscriber *Subscriber[T], opts ...UnsubscribeOption)
}

type Activable[T any] interface {
	Activate(payload ...T) error
}

type Signal[T any] interface {
	Subscribable[T]
	Activable[T]
}
