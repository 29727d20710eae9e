package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Broadcaster fans an admin message out to every connected client.
// Delivery is best effort and never touches ledger state.
type Broadcaster interface {
	Publish(ctx context.Context, payload json.RawMessage) error
}

// Hub is an in-process Broadcaster. Subscribers that cannot keep up are
// skipped for that message rather than blocking the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan json.RawMessage]struct{}
	log  *slog.Logger

	onSubscribers func(n int) // optional gauge hook
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}

	return &Hub{
		subs: make(map[chan json.RawMessage]struct{}),
		log:  log,
	}
}

// OnSubscriberCount registers a callback invoked with the subscriber
// count after every subscribe/unsubscribe.
func (h *Hub) OnSubscriberCount(fn func(n int)) {
	h.mu.Lock()
	h.onSubscribers = fn
	h.mu.Unlock()
}

// Subscribe registers a client. The returned cancel must be called when
// the client disconnects.
func (h *Hub) Subscribe() (<-chan json.RawMessage, func()) {
	ch := make(chan json.RawMessage, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	n := len(h.subs)
	hook := h.onSubscribers
	h.mu.Unlock()

	if hook != nil {
		hook(n)
	}

	cancel := func() {
		h.mu.Lock()
		_, ok := h.subs[ch]
		if ok {
			delete(h.subs, ch)
			close(ch)
		}
		n := len(h.subs)
		hook := h.onSubscribers
		h.mu.Unlock()

		if ok && hook != nil {
			hook(n)
		}
	}

	return ch, cancel
}

func (h *Hub) Publish(ctx context.Context, payload json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// slow consumer, drop this message for them
			h.log.Debug("broadcast dropped for slow subscriber")
		}
	}

	return nil
}
