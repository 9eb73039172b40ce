package simulator

import (
	"sync"

	"github.com/msto63/schedclients/pkg/core/logging"
)

// subscriberBuffer is the number of updates queued per stream before new
// updates are dropped for that stream
const subscriberBuffer = 64

// Broadcaster fans updates out to every open stream
type Broadcaster[T any] struct {
	name   string
	logger *logging.Logger

	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
}

// NewBroadcaster creates an empty broadcaster
func NewBroadcaster[T any](name string, logger *logging.Logger) *Broadcaster[T] {
	return &Broadcaster[T]{
		name:   name,
		logger: logger,
		subs:   make(map[uint64]chan T),
	}
}

// Subscribe registers a new receiver. The channel is closed by cancel or by Reset.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan T, subscriberBuffer)
	b.subs[id] = ch

	b.logger.Debug("Stream subscribed", "feed", b.name, "subscribers", len(b.subs))

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish queues v for every receiver without blocking
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- v:
		default:
			b.logger.Warn("Subscriber too slow, update dropped", "feed", b.name, "subscriber", id)
		}
	}
}

// Reset closes every receiver, which ends their streams
func (b *Broadcaster[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

// Count returns the number of open receivers
func (b *Broadcaster[T]) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
