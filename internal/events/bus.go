package events

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"bluereserve/internal/domain"

	"github.com/sirupsen/logrus"
)

// Publisher is the engine's view of the event sink. Publishing never
// fails the caller; delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, e domain.Event)
}

type Handler func(ctx context.Context, e domain.Event) error

type subscription struct {
	name string
	fn   Handler
}

type delivery struct {
	ctx context.Context
	e   domain.Event
}

// Bus fans events out to subscribers. With zero workers delivery happens
// on the publishing goroutine. Otherwise events are sharded over workers by
// booking id, which keeps the events of one booking in publish order.
type Bus struct {
	log logrus.FieldLogger

	mu     sync.RWMutex
	subs   []subscription
	queues []chan delivery
	closed bool
	wg     sync.WaitGroup
}

func NewBus(workers, buffer int, log logrus.FieldLogger) *Bus {
	b := &Bus{log: log}
	for i := 0; i < workers; i++ {
		q := make(chan delivery, buffer)
		b.queues = append(b.queues, q)
		b.wg.Add(1)
		go b.run(q)
	}
	return b
}

// Subscribe registers fn for every event. Subscribers are called in
// registration order.
func (b *Bus) Subscribe(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{name: name, fn: fn})
}

func (b *Bus) Publish(ctx context.Context, e domain.Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		b.log.WithFields(logrus.Fields{
			"event":      e.EventName(),
			"booking_id": e.EventBookingID(),
		}).Warn("event bus closed, dropping event")
		return
	}

	// delivery ignores request cancellation but keeps trace values
	ctx = context.WithoutCancel(ctx)

	if len(b.queues) == 0 {
		subs := b.subs
		b.mu.RUnlock()
		b.deliver(ctx, e, subs)
		return
	}

	// the read lock keeps Close from closing the queue under us
	b.queues[shard(e.EventBookingID(), len(b.queues))] <- delivery{ctx: ctx, e: e}
	b.mu.RUnlock()
}

// Close stops accepting events and waits for queued ones to be delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, q := range b.queues {
		close(q)
	}
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Bus) run(q <-chan delivery) {
	defer b.wg.Done()
	for d := range q {
		b.mu.RLock()
		subs := b.subs
		b.mu.RUnlock()
		b.deliver(d.ctx, d.e, subs)
	}
}

func (b *Bus) deliver(ctx context.Context, e domain.Event, subs []subscription) {
	for _, s := range subs {
		if err := safeCall(ctx, s.fn, e); err != nil {
			b.log.WithFields(logrus.Fields{
				"subscriber": s.name,
				"event":      e.EventName(),
				"booking_id": e.EventBookingID(),
			}).WithError(err).Error("event handler failed")
		}
	}
}

func safeCall(ctx context.Context, fn Handler, e domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, e)
}

func shard(id domain.BookingID, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(n))
}
