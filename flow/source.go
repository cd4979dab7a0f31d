package flow

import (
	"context"
	"time"

	"github.com/tapline-dev/tapline/log"
	"github.com/tapline-dev/tapline/metrics"
	"github.com/tapline-dev/tapline/scheduler"
	"github.com/tapline-dev/tapline/types"
)

// Stream is a root node with no parent: callers drive it directly by
// calling Push, which is simply an alias for Emit.
type Stream struct{ Node }

// NewStream creates a Stream with its own logger and metrics collector.
func NewStream() *Stream {
	return NewStreamWithObservability(log.NewLogger("graph"), metrics.NewCollector())
}

// NewStreamWithObservability creates a Stream scoped to a caller-supplied
// logger/metrics collector, so multiple graphs in a process can report
// under distinct graph_id fields and separate counters.
func NewStreamWithObservability(logger *log.Logger, coll *metrics.Collector) *Stream {
	return &Stream{Node: newNode(types.KindStream, logger, coll)}
}

// Push forwards x to every subscriber.
func (s *Stream) Push(ctx context.Context, x types.Element) types.Token {
	return s.Emit(ctx, x)
}

// Counter is a root node that emits successive integers 0, 1, 2, ... once
// per interval on a background goroutine, starting at construction.
type Counter struct {
	Node
	sched    scheduler.Scheduler
	interval time.Duration
	stop     chan struct{}
}

// NewCounter creates a Counter with its own logger and metrics collector,
// emitting every interval using the real wall-clock scheduler.
func NewCounter(interval time.Duration) *Counter {
	return NewCounterWithObservability(interval, log.NewLogger("graph"), metrics.NewCollector(), scheduler.Default)
}

// NewCounterWithObservability creates a Counter with an explicit
// logger/metrics collector and scheduler, letting tests substitute a fake
// scheduler to run without real sleeps.
func NewCounterWithObservability(interval time.Duration, logger *log.Logger, coll *metrics.Collector, sched scheduler.Scheduler) *Counter {
	c := &Counter{
		Node:     newNode(types.KindCounter, logger, coll),
		sched:    sched,
		interval: interval,
		stop:     make(chan struct{}),
	}
	sched.Spawn(c.run)
	return c
}

// Push forwards x to every subscriber; Counter rarely needs this directly,
// but it satisfies Pushable like every other node.
func (c *Counter) Push(ctx context.Context, x types.Element) types.Token {
	return c.Emit(ctx, x)
}

// Stop halts the background counting goroutine. Not part of the dataflow
// contract proper (nodes are never destroyed mid-graph) but necessary to
// avoid leaking a goroutine once a graph built around a Counter is done.
func (c *Counter) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

func (c *Counter) run() {
	background := context.Background()
	for n := 0; ; n++ {
		select {
		case <-c.stop:
			return
		default:
		}
		if err := c.Emit(background, n).Wait(background); err != nil {
			return
		}
		select {
		case <-c.stop:
			return
		default:
		}
		if err := c.sched.Sleep(background, c.interval); err != nil {
			return
		}
	}
}
