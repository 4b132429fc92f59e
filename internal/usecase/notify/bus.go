package notify

import (
	"log/slog"
	"sync"

	"newswire/internal/observability/metrics"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls further behind than this loses events rather than blocking
// the publisher.
const subscriberBuffer = 16

// Subscriber is one attached reader of the bus. It receives every event
// published between Subscribe and Unsubscribe, subject to the buffer limit.
type Subscriber struct {
	ch chan Event
}

// Events returns the channel delivering this subscriber's events.
// The channel is never closed; readers should select on it together with
// their own cancellation signal.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Bus fans change events out to the currently attached subscribers.
// All methods are safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	logger *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe attaches a new subscriber and returns its handle.
// The subscriber sees only events published after this call returns.
func (b *Bus) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()

	metrics.UpdateSubscribers(count)
	return sub
}

// Unsubscribe detaches a subscriber. Calling it again, or with a handle
// that was never attached, is a no-op.
func (b *Bus) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	delete(b.subs, sub)
	count := len(b.subs)
	b.mu.Unlock()

	metrics.UpdateSubscribers(count)
}

// Publish delivers the event to every currently attached subscriber.
// The subscriber set is snapshotted before delivery, so attach/detach
// racing a publish neither skips nor double-notifies anyone. Delivery to
// each subscriber is non-blocking: a full buffer means that subscriber
// misses the event, and the publisher never waits.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(b.subs))
	for sub := range b.subs {
		snapshot = append(snapshot, sub)
	}
	b.mu.RUnlock()

	metrics.RecordChangeEvent(ev.Kind)

	for _, sub := range snapshot {
		select {
		case sub.ch <- ev:
		default:
			// 遅い購読者はイベントを落とす
			b.logger.Debug("subscriber buffer full, event dropped",
				slog.String("kind", ev.Kind))
		}
	}
}

// Len reports the number of currently attached subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
