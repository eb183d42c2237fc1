package signals

import (
	"github.com/hashicorp/go-multierror"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/disposable"
)

type CompositeSubscribableImp[T any] struct {
	delegates []Subscribable[T]
}

func NewCompositeSubscribable[T any](delegates ...Subscribable[T]) *CompositeSubscribableImp[T] {
	return &CompositeSubscribableImp[T]{delegates: delegates}
}

func (s *CompositeSubscribableImp[T]) Subscribe(subscriber *Subscriber[T], opts ...SubscribeOption) disposable.Disposable {
	disposables := make([]disposable.Disposable, 0, len(s.delegates))
	for _, delegate := range s.delegates {
		disposables = append(disposables, delegate.Subscribe(subscriber, opts...))
	}
	return disposable.NewCompositeDisposable(disposables...)
}

func (s *CompositeSubscribableImp[T]) Unsubscribe(subscriber *Subscriber[T], opts ...UnsubscribeOption) {
	for _, delegate := range s.delegates {
		delegate.Unsubscribe(subscriber, opts...)
	}
}

type CompositeSignalImp[T any] struct {
	CompositeSubscribableImp[T]
	activables []Activable[T]
}

func NewCompositeSignal[T any](delegates ...Signal[T]) *CompositeSignalImp[T] {
	s := &CompositeSignalImp[T]{}
	for _, delegate := range delegates {
		s.delegates = append(s.delegates, delegate)
		s.activables = append(s.activables, delegate)
	}
	return s
}

// Activate activates every delegate, even after one of them fails, and
// returns the failures combined.
func (s *CompositeSignalImp[T]) Activate(payload ...T) error {
	var result *multierror.Error
	for _, delegate := range s.activables {
		if err := delegate.Activate(payload...); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

var (
	_ Subscribable[struct{}] = (*CompositeSubscribableImp[struct{}])(nil)
	_ Signal[struct{}]       = (*CompositeSignalImp[struct{}])(nil)
)
