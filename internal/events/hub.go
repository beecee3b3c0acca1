// internal/events/hub.go
package events

import "sync"

const subscriberBuffer = 10

// Hub fans encoded events out to subscribers of a topic. The portal uses
// the client id as the topic so each browser only sees its own toasts.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan string]struct{})}
}

func (h *Hub) Subscribe(topic string) chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan string]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(topic string, ch chan string) {
	h.mu.Lock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	h.mu.Unlock()
	close(ch)
}

// Publish never blocks: a subscriber with a full buffer misses the event.
func (h *Hub) Publish(topic, evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.topics[topic] {
		select {
		case ch <- evt:
		default:
			// drop if slow
		}
	}
}

// Subscribers returns the number of open subscriptions on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
