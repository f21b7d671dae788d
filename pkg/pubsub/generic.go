package pubsub

import (
	"sync"
)

const (
	TopicView  = "view"
	TopicAlert = "alert"
)

// PubSub fans messages out to topic subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the message.
type PubSub[T any] struct {
	mu     sync.Mutex
	subs   map[string][]chan T
	buffer int
}

func NewPubSub[T any](buffer int) *PubSub[T] {
	return &PubSub[T]{
		subs:   make(map[string][]chan T),
		buffer: buffer,
	}
}

func (ps *PubSub[T]) Subscribe(topic string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T, ps.buffer)
	ps.subs[topic] = append(ps.subs[topic], ch)
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (ps *PubSub[T]) Unsubscribe(topic string, sub <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	chans := ps.subs[topic]
	for i, ch := range chans {
		if ch == sub {
			ps.subs[topic] = append(chans[:i], chans[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish delivers data to every subscriber of topic and returns how many
// received it.
func (ps *PubSub[T]) Publish(topic string, data T) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delivered := 0
	for _, ch := range ps.subs[topic] {
		select {
		case ch <- data:
			delivered++
		default:
		}
	}
	return delivered
}

func (ps *PubSub[T]) Subscribers(topic string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.subs[topic])
}
