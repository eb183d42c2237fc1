package disposable

import "sync"

type Disposable interface {
	Dispose()
}

type DisposableImp struct {
	once     sync.Once
	callback func()
}

// NewDisposable returns a Disposable running callback on the first Dispose call only.
func NewDisposable(callback func()) *DisposableImp {
	return &DisposableImp{callback: callback}
}

func (d *DisposableImp) Dispose() {
	d.once.Do(func() {
		if d.callback != nil {
			d.callback()
		}
	})
}

type CompositeDisposableImp struct {
	delegates []Disposable
}

func NewCompositeDisposable(delegates ...Disposable) *CompositeDisposableImp {
	return &CompositeDisposableImp{delegates: delegates}
}

func (d *CompositeDisposableImp) Dispose() {
	for _, delegate := range d.delegates {
		delegate.Dispose()
	}
}

// Add appends a delegate to be disposed together with the rest.
func (d *CompositeDisposableImp) Add(delegate Disposable) {
	d.delegates = append(d.delegates, delegate)
}
