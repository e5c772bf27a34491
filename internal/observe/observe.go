// Package observe is a small synchronous publish/subscribe hub.
package observe

import "sync"

// Hub delivers values of type T to subscribers. Publish calls every
// listener synchronously, in subscription order. The listener set is
// captured when a pass starts, so subscribing or unsubscribing from inside
// a listener only affects later passes.
type Hub[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (h *Hub[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listener[T]{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.listeners {
		if l.id == id {
			// Copy so a pass already iterating the old slice is unaffected.
			next := make([]listener[T], 0, len(h.listeners)-1)
			next = append(next, h.listeners[:i]...)
			next = append(next, h.listeners[i+1:]...)
			h.listeners = next
			return
		}
	}
}

// Publish delivers v to every listener subscribed when the call started.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	pass := h.listeners
	h.mu.Unlock()

	for _, l := range pass {
		l.fn(v)
	}
}

// Len returns the number of current subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
