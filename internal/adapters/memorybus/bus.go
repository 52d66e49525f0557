package memorybus

import (
	"sync"

	"github.com/rogerbox/rogerbox/internal/ports"
)

// DefaultBuffer est la capacité du canal de chaque abonné.
const DefaultBuffer = 64

// Bus diffuse les événements du process (publication de compléments,
// progression, bannières) aux abonnés : flux SSE admin et ProgressUpdater.
// Un abonné trop lent perd des événements plutôt que de bloquer Publish.
type Bus struct {
	mu      sync.Mutex
	subs    map[chan ports.Event]struct{}
	buffer  int
	closed  bool
	dropped uint64
}

func New() *Bus {
	return NewWithBuffer(DefaultBuffer)
}

func NewWithBuffer(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{subs: make(map[chan ports.Event]struct{}), buffer: buffer}
}

func (b *Bus) Publish(topic string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	evt := ports.Event{Topic: topic, Payload: payload}
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.dropped++
		}
	}
}

func (b *Bus) Subscribe() (<-chan ports.Event, func()) {
	ch := make(chan ports.Event, b.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
		b.mu.Unlock()
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Close ferme tous les abonnements ; les Publish suivants sont ignorés.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped compte les événements perdus faute de place chez un abonné.
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
