package flow

import (
	"context"
	"sync"

	"github.com/tapline-dev/tapline/types"
)

// PartitionNode groups every n pushed elements into a batch and emits the
// batch once it is full.
type PartitionNode struct {
	Node
	n int

	mu  sync.Mutex
	buf []types.Element
}

// Partition attaches a PartitionNode. n must be positive.
func (nd *Node) Partition(n int) (*PartitionNode, error) {
	if n <= 0 {
		nd.metrics.IncStructuralError()
		nd.logger.Warn("partition rejected", map[string]any{"n": n})
		return nil, types.NewStructuralError("partition", "n must be > 0")
	}
	p := &PartitionNode{Node: newNode(types.KindPartition, nd.logger, nd.metrics), n: n}
	_ = nd.Subscribe(p)
	return p, nil
}

func (p *PartitionNode) Push(ctx context.Context, x types.Element) types.Token {
	p.metrics.IncPush()
	p.mu.Lock()
	p.buf = append(p.buf, x)
	if len(p.buf) < p.n {
		p.mu.Unlock()
		return types.Resolved()
	}
	batch := p.buf
	p.buf = nil
	p.mu.Unlock()
	return p.Emit(ctx, batch)
}

// SlidingWindowNode emits the last n elements (including the one just
// pushed) once at least n have been seen.
type SlidingWindowNode struct {
	Node
	n int

	mu  sync.Mutex
	buf []types.Element
}

// SlidingWindow attaches a SlidingWindowNode. n must be positive.
func (nd *Node) SlidingWindow(n int) (*SlidingWindowNode, error) {
	if n <= 0 {
		nd.metrics.IncStructuralError()
		nd.logger.Warn("sliding_window rejected", map[string]any{"n": n})
		return nil, types.NewStructuralError("sliding_window", "n must be > 0")
	}
	w := &SlidingWindowNode{Node: newNode(types.KindSlidingWindow, nd.logger, nd.metrics), n: n}
	_ = nd.Subscribe(w)
	return w, nil
}

func (w *SlidingWindowNode) Push(ctx context.Context, x types.Element) types.Token {
	w.metrics.IncPush()
	w.mu.Lock()
	w.buf = append(w.buf, x)
	if len(w.buf) > w.n {
		w.buf = w.buf[1:]
	}
	full := len(w.buf) == w.n
	var window []types.Element
	if full {
		window = append([]types.Element(nil), w.buf...)
	}
	w.mu.Unlock()
	if !full {
		return types.Resolved()
	}
	return w.Emit(ctx, window)
}

// CollectNode buffers every pushed element until Flush is explicitly
// called, which emits the accumulated batch and clears it.
type CollectNode struct {
	Node

	mu  sync.Mutex
	buf []types.Element
}

// Collect attaches a CollectNode.
func (n *Node) Collect() *CollectNode {
	c := &CollectNode{Node: newNode(types.KindCollect, n.logger, n.metrics)}
	_ = n.Subscribe(c)
	return c
}

func (c *CollectNode) Push(ctx context.Context, x types.Element) types.Token {
	c.metrics.IncPush()
	c.mu.Lock()
	c.buf = append(c.buf, x)
	c.mu.Unlock()
	return types.Resolved()
}

// Flush emits whatever has been buffered since the last Flush (possibly an
// empty batch) and clears the buffer.
func (c *CollectNode) Flush(ctx context.Context) types.Token {
	c.mu.Lock()
	batch := c.buf
	c.buf = nil
	c.mu.Unlock()
	return c.Emit(ctx, batch)
}
