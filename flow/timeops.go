package flow

import (
	"context"
	"sync"
	"time"

	"github.com/tapline-dev/tapline/scheduler"
	"github.com/tapline-dev/tapline/types"
)

// DefaultDelayQueueCapacity bounds how many delayed deliveries a DelayNode
// keeps in flight at once when no explicit capacity is given.
const DefaultDelayQueueCapacity = 64

// RateLimitNode forwards pushes no faster than once per interval, sleeping
// out the difference when pushes arrive too quickly. Pushes are serialized:
// only one is ever in flight, so a burst queues up behind the sleep.
type RateLimitNode struct {
	Node
	interval time.Duration
	sched    scheduler.Scheduler

	mu        sync.Mutex
	nextReady time.Time
}

// RateLimit attaches a RateLimitNode using the real wall-clock scheduler.
func (n *Node) RateLimit(interval time.Duration) *RateLimitNode {
	return n.rateLimitWithScheduler(interval, scheduler.Default)
}

func (n *Node) rateLimitWithScheduler(interval time.Duration, sched scheduler.Scheduler) *RateLimitNode {
	r := &RateLimitNode{Node: newNode(types.KindRateLimit, n.logger, n.metrics), interval: interval, sched: sched}
	_ = n.Subscribe(r)
	return r
}

func (r *RateLimitNode) Push(ctx context.Context, x types.Element) types.Token {
	r.metrics.IncPush()
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.sched.Now()
	target := r.nextReady
	if target.Before(now) {
		target = now
	}
	if wait := target.Sub(now); wait > 0 {
		if err := r.sched.Sleep(ctx, wait); err != nil {
			r.metrics.IncTimeout()
			r.logger.Warn("rate_limit sleep interrupted", map[string]any{"error": err.Error()})
			return types.Failed(types.NewTimeoutError(err))
		}
	}
	r.nextReady = target.Add(r.interval)
	return r.Emit(ctx, x)
}

// DelayNode forwards every pushed element after a fixed interval, without
// serializing pushes: up to its queue capacity, deliveries run concurrently.
type DelayNode struct {
	Node
	interval time.Duration
	sched    scheduler.Scheduler
	slots    *scheduler.BoundedQueue
}

// Delay attaches a DelayNode with DefaultDelayQueueCapacity in-flight slots.
func (n *Node) Delay(interval time.Duration) *DelayNode {
	return n.DelayWithCapacity(interval, DefaultDelayQueueCapacity)
}

// DelayWithCapacity attaches a DelayNode with a custom number of in-flight
// delayed deliveries; a push beyond that capacity blocks until a slot frees.
func (n *Node) DelayWithCapacity(interval time.Duration, capacity int) *DelayNode {
	return n.delayWithScheduler(interval, capacity, scheduler.Default)
}

func (n *Node) delayWithScheduler(interval time.Duration, capacity int, sched scheduler.Scheduler) *DelayNode {
	d := &DelayNode{
		Node:     newNode(types.KindDelay, n.logger, n.metrics),
		interval: interval,
		sched:    sched,
		slots:    sched.NewBoundedQueue(capacity),
	}
	_ = n.Subscribe(d)
	return d
}

func (d *DelayNode) Push(ctx context.Context, x types.Element) types.Token {
	d.metrics.IncPush()
	if err := d.slots.Put(ctx, struct{}{}); err != nil {
		d.metrics.IncTimeout()
		d.logger.Warn("delay slot acquisition interrupted", map[string]any{"error": err.Error()})
		return types.Failed(types.NewTimeoutError(err))
	}
	d.sched.Spawn(func() {
		background := context.Background()
		defer func() { _, _ = d.slots.Get(background) }()
		if err := d.sched.Sleep(background, d.interval); err != nil {
			return
		}
		_ = d.Emit(background, x).Wait(background)
	})
	return types.Resolved()
}

// BufferNode decouples push from emit with an internal bounded queue:
// pushes enqueue and resolve immediately (or await room), while a single
// background worker drains the queue and awaits each downstream emission
// before advancing.
type BufferNode struct {
	Node
	sched scheduler.Scheduler
	queue *scheduler.BoundedQueue
}

// Buffer attaches a BufferNode with the given queue capacity.
func (n *Node) Buffer(size int) *BufferNode {
	return n.bufferWithScheduler(size, scheduler.Default)
}

func (n *Node) bufferWithScheduler(size int, sched scheduler.Scheduler) *BufferNode {
	b := &BufferNode{Node: newNode(types.KindBuffer, n.logger, n.metrics), sched: sched, queue: sched.NewBoundedQueue(size)}
	_ = n.Subscribe(b)
	sched.Spawn(b.drain)
	return b
}

func (b *BufferNode) Push(ctx context.Context, x types.Element) types.Token {
	b.metrics.IncPush()
	if err := b.queue.Put(ctx, x); err != nil {
		b.metrics.IncTimeout()
		b.logger.Warn("buffer enqueue interrupted", map[string]any{"error": err.Error()})
		return types.Failed(types.NewTimeoutError(err))
	}
	return types.Resolved()
}

func (b *BufferNode) drain() {
	background := context.Background()
	for {
		x, err := b.queue.Get(background)
		if err != nil {
			return
		}
		_ = b.Emit(background, x).Wait(background)
	}
}

// TimedWindowNode batches pushed elements and emits the accumulated batch
// once per interval, even when the batch is empty. Because the emit must
// complete before the next sleep begins, a slow downstream stretches the
// effective interval.
type TimedWindowNode struct {
	Node
	interval time.Duration
	sched    scheduler.Scheduler

	mu  sync.Mutex
	buf []types.Element
}

// TimedWindow attaches a TimedWindowNode and starts its background ticker.
func (n *Node) TimedWindow(interval time.Duration) *TimedWindowNode {
	return n.timedWindowWithScheduler(interval, scheduler.Default)
}

func (n *Node) timedWindowWithScheduler(interval time.Duration, sched scheduler.Scheduler) *TimedWindowNode {
	t := &TimedWindowNode{Node: newNode(types.KindTimedWindow, n.logger, n.metrics), interval: interval, sched: sched}
	_ = n.Subscribe(t)
	sched.Spawn(t.run)
	return t
}

func (t *TimedWindowNode) Push(ctx context.Context, x types.Element) types.Token {
	t.metrics.IncPush()
	t.mu.Lock()
	t.buf = append(t.buf, x)
	t.mu.Unlock()
	return types.Resolved()
}

func (t *TimedWindowNode) run() {
	background := context.Background()
	for {
		t.mu.Lock()
		batch := t.buf
		t.buf = nil
		t.mu.Unlock()

		_ = t.Emit(background, batch).Wait(background)

		if err := t.sched.Sleep(background, t.interval); err != nil {
			return
		}
	}
}
