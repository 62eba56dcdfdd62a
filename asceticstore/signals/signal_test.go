package signals

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/disposable"
)

type sampleEvent struct {
	payload int
}

func TestSignal_AttachAndNotify(t *testing.T) {
	s := NewSignal[sampleEvent]()
	var called sampleEvent
	s.Attach(func(e sampleEvent) { called = e }, "obs")
	s.Notify(sampleEvent{1})
	assert.Equal(t, sampleEvent{1}, called)
}

func TestSignal_NotifyPreservesOrder(t *testing.T) {
	s := NewSignal[sampleEvent]()
	var order []int
	s.Attach(func(e sampleEvent) { order = append(order, 1) }, "obs1")
	s.Attach(func(e sampleEvent) { order = append(order, 2) }, "obs2")
	s.Notify(sampleEvent{1})
	assert.Equal(t, []int{1, 2}, order)
}

func TestSignal_Detach(t *testing.T) {
	s := NewSignal[sampleEvent]()
	called := false
	observer := Observer[sampleEvent](func(e sampleEvent) { called = true })
	s.Attach(observer, "obs")
	s.Detach(observer, "obs")
	s.Notify(sampleEvent{1})
	assert.False(t, called)
	assert.Zero(t, s.Len())
}

func TestSignal_DetachNonexistentIsSilent(t *testing.T) {
	s := NewSignal[sampleEvent]()
	observer := Observer[sampleEvent](func(e sampleEvent) {})
	s.Detach(observer, "nonexistent") // should not panic
}

func TestSignal_AttachDuplicateObserverIDKeepsFirst(t *testing.T) {
	s := NewSignal[sampleEvent]()
	var which int
	s.Attach(func(e sampleEvent) { which = 1 }, "same")
	s.Attach(func(e sampleEvent) { which = 2 }, "same")
	s.Notify(sampleEvent{1})
	assert.Equal(t, 1, which)
	assert.Equal(t, 1, s.Len())
}

func TestSignal_NotifyNoObservers(t *testing.T) {
	s := NewSignal[sampleEvent]()
	s.Notify(sampleEvent{1}) // should not panic
}

func TestSignal_DisposableDetaches(t *testing.T) {
	s := NewSignal[sampleEvent]()
	called := false
	d := s.Attach(func(e sampleEvent) { called = true }, "obs")
	d.Dispose()
	s.Notify(sampleEvent{1})
	assert.False(t, called)
}

func TestSignal_WithoutID(t *testing.T) {
	t.Run("attach", func(t *testing.T) {
		s := NewSignal[sampleEvent]()
		var called sampleEvent
		s.Attach(func(e sampleEvent) { called = e })
		s.Notify(sampleEvent{42})
		assert.Equal(t, sampleEvent{42}, called)
	})
	t.Run("same function attaches twice", func(t *testing.T) {
		s := NewSignal[sampleEvent]()
		callCount := 0
		observer := Observer[sampleEvent](func(e sampleEvent) { callCount++ })
		s.Attach(observer)
		s.Attach(observer)
		s.Notify(sampleEvent{1})
		assert.Equal(t, 2, callCount)

		s.Detach(observer)
		s.Notify(sampleEvent{1})
		assert.Equal(t, 3, callCount)
	})
	t.Run("closures of one literal", func(t *testing.T) {
		s := NewSignal[sampleEvent]()
		var got []int
		var disposables []disposable.Disposable
		for i := 0; i < 3; i++ {
			disposables = append(disposables, s.Attach(func(e sampleEvent) { got = append(got, i*10+e.payload) }))
		}
		assert.Equal(t, 3, s.Len())
		s.Notify(sampleEvent{1})
		assert.Equal(t, []int{1, 11, 21}, got)

		disposables[1].Dispose()
		got = nil
		s.Notify(sampleEvent{2})
		assert.Equal(t, []int{2, 22}, got)
	})
	t.Run("explicit id is not detached by function", func(t *testing.T) {
		s := NewSignal[sampleEvent]()
		observer := Observer[sampleEvent](func(e sampleEvent) {})
		s.Attach(observer, "named")
		s.Detach(observer)
		assert.Equal(t, 1, s.Len())
	})
	t.Run("detach", func(t *testing.T) {
		s := NewSignal[sampleEvent]()
		called := false
		observer := Observer[sampleEvent](func(e sampleEvent) { called = true })
		s.Attach(observer)
		s.Detach(observer)
		s.Notify(sampleEvent{1})
		assert.False(t, called)
	})
	t.Run("dispose", func(t *testing.T) {
		s := NewSignal[sampleEvent]()
		called := false
		d := s.Attach(func(e sampleEvent) { called = true })
		d.Dispose()
		s.Notify(sampleEvent{1})
		assert.False(t, called)
	})
}

func TestSignal_ObserverDetachingItselfDuringNotify(t *testing.T) {
	s := NewSignal[sampleEvent]()
	calls := 0
	var observer Observer[sampleEvent]
	observer = func(e sampleEvent) {
		calls++
		s.Detach(observer, "self")
	}
	s.Attach(observer, "self")
	s.Notify(sampleEvent{1})
	s.Notify(sampleEvent{2})
	assert.Equal(t, 1, calls)
}

func TestSignal_ConcurrentNotify(t *testing.T) {
	s := NewSignal[sampleEvent]()
	var mu sync.Mutex
	total := 0
	s.Attach(func(e sampleEvent) {
		mu.Lock()
		total += e.payload
		mu.Unlock()
	}, "sum")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Notify(sampleEvent{1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, total)
}

func TestMakeIDForFunction(t *testing.T) {
	observer := Observer[sampleEvent](func(e sampleEvent) {})
	assert.Equal(t, reflect.ValueOf(observer).Pointer(), makeID(observer))
}
