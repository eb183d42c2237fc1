package signals

import (
	"runtime"
	"sync"
	"weak"
)

type registryEntry[T any] struct {
	listener weak.Pointer[listener[T]]
	cleanup  runtime.Cleanup
}

// registry maps subscribers to their listener without keeping either alive.
// A listener lives as long as the event target holds it; an entry is dropped
// once its subscriber is garbage collected.
type registry[T any] struct {
	mu      sync.Mutex
	entries map[weak.Pointer[Subscriber[T]]]*registryEntry[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{
		entries: make(map[weak.Pointer[Subscriber[T]]]*registryEntry[T]),
	}
}

func (r *registry[T]) resolve(subscriber *Subscriber[T]) *listener[T] {
	key := weak.Make(subscriber)

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[key]; ok {
		if l := entry.listener.Value(); l != nil {
			return l
		}
		l := newListener(subscriber)
		entry.listener = weak.Make(l)
		return l
	}

	l := newListener(subscriber)
	entry := &registryEntry[T]{listener: weak.Make(l)}
	entry.cleanup = runtime.AddCleanup(subscriber, r.drop, key)
	r.entries[key] = entry
	return l
}

func (r *registry[T]) lookup(subscriber *Subscriber[T]) (*listener[T], bool) {
	key := weak.Make(subscriber)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	l := entry.listener.Value()
	return l, l != nil
}

func (r *registry[T]) forget(subscriber *Subscriber[T]) {
	key := weak.Make(subscriber)

	r.mu.Lock()
	entry, ok := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()

	if ok {
		entry.cleanup.Stop()
	}
}

func (r *registry[T]) clear() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[weak.Pointer[Subscriber[T]]]*registryEntry[T])
	r.mu.Unlock()

	for _, entry := range entries {
		entry.cleanup.Stop()
	}
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// drop runs on the cleanup goroutine after the subscriber is collected.
func (r *registry[T]) drop(key weak.Pointer[Subscriber[T]]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}
