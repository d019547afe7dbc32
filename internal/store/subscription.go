package store

import "sync"

// subscriber delivers filtered snapshots to one callback. Delivery runs on a
// dedicated goroutine; the channel holds at most the latest snapshot so a slow
// callback coalesces intermediate states instead of queueing them.
type subscriber[T Record[T]] struct {
	filter  Filter[T]
	ch      chan []T
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSubscriber[T Record[T]](filter Filter[T]) *subscriber[T] {
	return &subscriber[T]{
		filter:  filter,
		ch:      make(chan []T, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// push replaces any pending snapshot with the newer one. Called with the
// collection lock held, so pushes are serialized.
func (s *subscriber[T]) push(snapshot []T) {
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func (s *subscriber[T]) run(deliver func([]T)) {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case snapshot := <-s.ch:
			select {
			case <-s.done:
				return
			default:
			}
			deliver(snapshot)
		}
	}
}

// stop halts delivery and waits for the delivery goroutine to exit, so no
// callback runs after stop returns. Safe to call more than once.
func (s *subscriber[T]) stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

// Subscribe registers deliver for filtered snapshots. The current snapshot is
// delivered immediately, then again after every mutation. The returned cancel
// is an idempotent, synchronous stop; it must not be called from inside the
// callback itself.
func (c *Collection[T]) Subscribe(filter Filter[T], deliver func([]T)) (cancel func()) {
	sub := newSubscriber(filter)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sub
	initial := c.snapshotLocked(filter)
	c.mu.Unlock()

	c.metrics.SubscriberOpened(c.name)
	sub.push(initial)
	go sub.run(func(snapshot []T) {
		c.metrics.ObserveSnapshot(c.name, len(snapshot))
		c.deliverSafely(deliver, snapshot)
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			sub.stop()
			c.metrics.SubscriberClosed(c.name)
		})
	}
}

// broadcastLocked publishes a fresh filtered snapshot to every subscriber.
// Caller holds c.mu.
func (c *Collection[T]) broadcastLocked() {
	for _, sub := range c.subs {
		sub.push(c.snapshotLocked(sub.filter))
	}
}

// deliverSafely keeps a panicking callback from killing the delivery loop.
func (c *Collection[T]) deliverSafely(deliver func([]T), snapshot []T) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("subscriber callback panicked", "panic", r)
		}
	}()
	deliver(snapshot)
}
