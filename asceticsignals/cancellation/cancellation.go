// Package cancellation describes the external abortable token a subscription
// can be bound to, plus two implementations: a context.Context adapter and a
// manually triggered Source.
package cancellation

import (
	"context"
	"slices"
	"sync"
)

// Handle is the narrow capability a subscriber registry depends on.
type Handle interface {
	// Triggered reports whether the handle has already fired.
	Triggered() bool
	// OnTrigger arranges for fn to run once, when the handle fires.
	// The returned stop reports whether it prevented fn from running.
	OnTrigger(fn func()) (stop func() bool)
}

type contextHandle struct {
	ctx context.Context
}

// FromContext adapts ctx so that its cancellation triggers the handle.
// A nil ctx never triggers.
func FromContext(ctx context.Context) Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	return contextHandle{ctx: ctx}
}

func (h contextHandle) Triggered() bool {
	return h.ctx.Err() != nil
}

// OnTrigger runs fn in its own goroutine after the context is done.
func (h contextHandle) OnTrigger(fn func()) func() bool {
	return context.AfterFunc(h.ctx, fn)
}

type callback struct {
	fn   func()
	done bool
}

// Source is a manually triggered Handle. Callbacks run synchronously inside
// Trigger, in registration order.
type Source struct {
	mu        sync.Mutex
	triggered bool
	callbacks []*callback
}

func NewSource() *Source {
	return &Source{}
}

// Handle returns the read-only facet of the source, without Trigger.
func (s *Source) Handle() Handle {
	return sourceHandle{source: s}
}

func (s *Source) Triggered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggered
}

func (s *Source) OnTrigger(fn func()) func() bool {
	s.mu.Lock()
	if s.triggered {
		s.mu.Unlock()
		fn()
		return func() bool { return false }
	}
	cb := &callback{fn: fn}
	s.callbacks = append(s.callbacks, cb)
	s.mu.Unlock()

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cb.done {
			return false
		}
		cb.done = true
		cb.fn = nil
		s.callbacks = slices.DeleteFunc(s.callbacks, func(c *callback) bool { return c == cb })
		return true
	}
}

// Trigger fires the source. Subsequent calls are no-ops.
func (s *Source) Trigger() {
	s.mu.Lock()
	if s.triggered {
		s.mu.Unlock()
		return
	}
	s.triggered = true
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, cb := range callbacks {
		s.mu.Lock()
		if cb.done {
			s.mu.Unlock()
			continue
		}
		cb.done = true
		fn := cb.fn
		cb.fn = nil
		s.mu.Unlock()
		fn()
	}
}

type sourceHandle struct {
	source *Source
}

func (h sourceHandle) Triggered() bool {
	return h.source.Triggered()
}

func (h sourceHandle) OnTrigger(fn func()) func() bool {
	return h.source.OnTrigger(fn)
}
