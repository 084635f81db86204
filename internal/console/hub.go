package console

import (
	"context"
	"sync"

	"faceattend/internal/notice"
)

const listenerBuffer = 16

// Hub fans notices from the bus out to every connected SSE client.
type Hub struct {
	mu        sync.RWMutex
	listeners []chan notice.Notice
	closed    bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Run forwards notices from src until src closes or ctx is done, then closes
// every listener.
func (h *Hub) Run(ctx context.Context, src <-chan notice.Notice) {
	defer h.close()
	for {
		select {
		case n, ok := <-src:
			if !ok {
				return
			}
			h.Send(n)
		case <-ctx.Done():
			return
		}
	}
}

// AddListener registers a new listener.
func (h *Hub) AddListener() chan notice.Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan notice.Notice, listenerBuffer)
	if h.closed {
		close(ch)
		return ch
	}
	h.listeners = append(h.listeners, ch)
	return ch
}

// RemoveListener unregisters and closes ch.
func (h *Hub) RemoveListener(ch chan notice.Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.listeners {
		if l == ch {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// Send delivers n to every listener.
func (h *Hub) Send(n notice.Notice) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, l := range h.listeners {
		select {
		case l <- n:
		default:
			// slow client, drop
		}
	}
}

// Listeners returns the number of connected listeners.
func (h *Hub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

func (h *Hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, l := range h.listeners {
		close(l)
	}
	h.listeners = nil
}
