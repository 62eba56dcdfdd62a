package disposable

import "sync"

// Disposable releases a subscription or another resource. Dispose is
// idempotent.
type Disposable interface {
	Dispose()
}

type callbackDisposable struct {
	once     sync.Once
	callback func()
}

func NewDisposable(callback func()) Disposable {
	return &callbackDisposable{callback: callback}
}

func (d *callbackDisposable) Dispose() {
	d.once.Do(d.callback)
}

type compositeDisposable struct {
	delegates []Disposable
}

// NewCompositeDisposable disposes all delegates in order.
func NewCompositeDisposable(delegates ...Disposable) Disposable {
	return &compositeDisposable{delegates: delegates}
}

func (d *compositeDisposable) Dispose() {
	for _, delegate := range d.delegates {
		delegate.Dispose()
	}
}
