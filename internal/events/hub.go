// Package events fans engine notifications out to SSE subscribers so the
// feed screen can refresh without polling.
package events

import "sync"

// subscriberBuffer bounds how far a slow SSE client may lag before it
// starts losing events.
const subscriberBuffer = 16

// Hub fans published events out to every subscribed feed screen. Delivery
// is best-effort: a subscriber that stops draining its channel loses
// events rather than blocking a publish.
type Hub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

// Subscribe registers a listener and returns its event channel. The
// caller must Unsubscribe when done; the hub closes the channel then.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish delivers evt to every subscriber that is keeping up.
func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// laggard, drop for this subscriber
		}
	}
}
