package chart

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSubscriberBuffer = 16

// Subscription is one live consumer of chart frames.
type Subscription struct {
	ID     string
	Frames <-chan Frame
	// Replayed is true when the last published frame was already queued.
	Replayed bool

	ch chan Frame
}

// Broadcaster is a Renderer that fans frames out to subscribers via buffered
// channels and remembers the last frame for late joiners.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]chan Frame
	last   *Frame
	buffer int
	l      *zap.Logger
}

var _ Renderer = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewBroadcaster(buffer int, l *zap.Logger) *Broadcaster {
	if buffer < 1 {
		buffer = defaultSubscriberBuffer
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Broadcaster{
		subs:   make(map[string]chan Frame),
		buffer: buffer,
		l:      l,
	}
}

// Render publishes the frame to all subscribers, dropping it for slow readers.
func (b *Broadcaster) Render(f Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &f
	for id, ch := range b.subs {
		select {
		case ch <- f:
		default:
			b.l.Debug("dropping chart frame for slow subscriber", zap.String("subscriber", id))
		}
	}
}

// Subscribe registers a consumer. The last published frame, if any, is
// queued immediately so the consumer can draw without waiting.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan Frame, b.buffer)
	id := uuid.NewString()

	b.mu.Lock()
	b.subs[id] = ch
	replayed := b.last != nil
	if replayed {
		ch <- *b.last
	}
	b.mu.Unlock()

	b.l.Debug("chart subscriber joined", zap.String("subscriber", id), zap.Bool("replayed", replayed))
	return &Subscription{ID: id, Frames: ch, Replayed: replayed, ch: ch}
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}

	b.mu.Lock()
	if ch, ok := b.subs[s.ID]; ok {
		delete(b.subs, s.ID)
		close(ch)
	}
	b.mu.Unlock()

	b.l.Debug("chart subscriber left", zap.String("subscriber", s.ID))
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}
