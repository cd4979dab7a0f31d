// Package metrics provides per-graph counters for the dataflow engine.
//
// The Collector accumulates counters across a graph's lifetime. It is a
// leaf package with no internal dependencies, following the same shape as
// the run-scoped collector it is modeled on.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of collected counters. Safe
// to read concurrently after creation.
type Snapshot struct {
	EmitsTotal       int64
	PushesTotal      int64
	CallbackErrors   int64
	Timeouts         int64
	StructuralErrors int64
	DroppedByNode    map[string]int64
}

// Collector accumulates metrics for a single graph. Thread-safe via
// sync.Mutex. All increment methods are nil-receiver safe so a graph built
// without metrics enabled costs nothing.
type Collector struct {
	mu sync.Mutex

	emitsTotal       int64
	pushesTotal      int64
	callbackErrors   int64
	timeouts         int64
	structuralErrors int64
	droppedByNode    map[string]int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{droppedByNode: make(map[string]int64)}
}

// IncEmit records one Emit call.
func (c *Collector) IncEmit() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.emitsTotal++
	c.mu.Unlock()
}

// IncPush records one Push call.
func (c *Collector) IncPush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.pushesTotal++
	c.mu.Unlock()
}

// IncCallbackError records one UserCallbackError surfaced through a token.
func (c *Collector) IncCallbackError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.callbackErrors++
	c.mu.Unlock()
}

// IncTimeout records one time-driven operator wait (a RateLimit sleep, a
// Delay slot acquisition, a Buffer enqueue) cut short by its context.
// Timeouts returned by Token.Wait itself are not counted.
func (c *Collector) IncTimeout() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.timeouts++
	c.mu.Unlock()
}

// IncStructuralError records one StructuralError raised at construction.
func (c *Collector) IncStructuralError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.structuralErrors++
	c.mu.Unlock()
}

// IncDropped records one element dropped by the named node kind (e.g.
// "filter", "unique").
func (c *Collector) IncDropped(nodeKind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.droppedByNode[nodeKind]++
	c.mu.Unlock()
}

// Snapshot returns an atomic copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{DroppedByNode: map[string]int64{}}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := make(map[string]int64, len(c.droppedByNode))
	for k, v := range c.droppedByNode {
		dropped[k] = v
	}

	return Snapshot{
		EmitsTotal:       c.emitsTotal,
		PushesTotal:      c.pushesTotal,
		CallbackErrors:   c.callbackErrors,
		Timeouts:         c.timeouts,
		StructuralErrors: c.structuralErrors,
		DroppedByNode:    dropped,
	}
}
