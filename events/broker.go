// Package events carries in-process notifications between components and
// out to websocket dashboards and RabbitMQ.
package events

import (
	"context"
	"sync"
)

// Broker fans values out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the value.
type Broker[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	next   int
	closed bool
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{subs: make(map[int]chan T)}
}

// Subscribe returns a channel receiving published values and a func that
// unsubscribes and closes it. The channel is also closed by Close.
func (b *Broker[T]) Subscribe(buffer int) (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers v to every subscriber with room for it and reports how
// many received it.
func (b *Broker[T]) Publish(v T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, ch := range b.subs {
		select {
		case ch <- v:
			n++
		default:
		}
	}
	return n
}

func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Pump calls fn for every value read from in until in is closed or ctx is
// done. Errors from fn go to onErr when it is set.
func Pump[T any](ctx context.Context, in <-chan T, fn func(context.Context, T) error, onErr func(T, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				return
			}
			if err := fn(ctx, v); err != nil && onErr != nil {
				onErr(v, err)
			}
		}
	}
}
