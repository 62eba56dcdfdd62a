package signals

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/disposable"
)

// token identifies an observer attached without an explicit id.
type token uint64

var lastToken atomic.Uint64

type entry[E any] struct {
	id       any
	fn       uintptr
	explicit bool
	observer Observer[E]
}

// SignalImp notifies observers in attach order. Observers may attach and
// detach from within Notify; the change applies to the next notification.
type SignalImp[E any] struct {
	mu        sync.Mutex
	observers []entry[E]
}

func NewSignal[E any]() *SignalImp[E] {
	return &SignalImp[E]{}
}

// Attach registers observer under observerID. Attaching an id twice keeps
// the first observer. Without an id every call adds a separate
// registration, even for the same function; dispose the returned value
// to remove exactly that one.
func (s *SignalImp[E]) Attach(observer Observer[E], observerID ...any) disposable.Disposable {
	e := entry[E]{fn: makeID(observer), observer: observer}
	if len(observerID) > 0 {
		e.id, e.explicit = observerID[0], true
	} else {
		e.id = token(lastToken.Add(1))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !e.explicit || !slices.ContainsFunc(s.observers, func(o entry[E]) bool { return o.id == e.id }) {
		s.observers = append(s.observers, e)
	}
	return disposable.NewDisposable(func() {
		s.remove(func(o entry[E]) bool { return o.id == e.id })
	})
}

// Detach removes the observer attached under observerID. Without an id it
// removes the earliest id-less registration of the same function.
func (s *SignalImp[E]) Detach(observer Observer[E], observerID ...any) {
	if len(observerID) > 0 {
		id := observerID[0]
		s.remove(func(o entry[E]) bool { return o.explicit && o.id == id })
		return
	}
	fn := makeID(observer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.observers, func(o entry[E]) bool { return !o.explicit && o.fn == fn }); i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}

func (s *SignalImp[E]) remove(match func(entry[E]) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = slices.DeleteFunc(s.observers, match)
}

func (s *SignalImp[E]) Notify(event E) {
	s.mu.Lock()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, e := range observers {
		e.observer(event)
	}
}

// Len is the number of attached observers.
func (s *SignalImp[E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func makeID[E any](observer Observer[E]) uintptr {
	return reflect.ValueOf(observer).Pointer()
}
