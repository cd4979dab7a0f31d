package flow

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/tapline-dev/tapline/types"
)

// MapFunc transforms one element into another. An error aborts the push and
// surfaces as a *types.UserCallbackError.
type MapFunc func(types.Element) (types.Element, error)

// MapNode applies f to every pushed element and emits the result.
type MapNode struct {
	Node
	f MapFunc
}

// Map attaches a MapNode as a child of n.
func (n *Node) Map(f MapFunc) *MapNode {
	m := &MapNode{Node: newNode(types.KindMap, n.logger, n.metrics), f: f}
	_ = n.Subscribe(m)
	return m
}

func (m *MapNode) Push(ctx context.Context, x types.Element) types.Token {
	m.metrics.IncPush()
	y, err := m.f(x)
	if err != nil {
		m.metrics.IncCallbackError()
		m.logger.Error("map callback failed", map[string]any{"error": err.Error()})
		return types.Failed(types.NewUserCallbackError(m.kind, m.id, err))
	}
	return m.Emit(ctx, y)
}

// PredicateFunc reports whether x satisfies some condition.
type PredicateFunc func(types.Element) (bool, error)

// FilterNode forwards only elements for which pred returns true.
type FilterNode struct {
	Node
	pred PredicateFunc
	keep bool // true for Filter, false for Remove
}

// Filter attaches a FilterNode that keeps elements pred accepts.
func (n *Node) Filter(pred PredicateFunc) *FilterNode {
	f := &FilterNode{Node: newNode(types.KindFilter, n.logger, n.metrics), pred: pred, keep: true}
	_ = n.Subscribe(f)
	return f
}

// Remove attaches a FilterNode that drops elements pred accepts.
func (n *Node) Remove(pred PredicateFunc) *FilterNode {
	f := &FilterNode{Node: newNode(types.KindRemove, n.logger, n.metrics), pred: pred, keep: false}
	_ = n.Subscribe(f)
	return f
}

func (f *FilterNode) Push(ctx context.Context, x types.Element) types.Token {
	f.metrics.IncPush()
	ok, err := f.pred(x)
	if err != nil {
		f.metrics.IncCallbackError()
		f.logger.Error("predicate callback failed", map[string]any{"error": err.Error()})
		return types.Failed(types.NewUserCallbackError(f.kind, f.id, err))
	}
	if ok != f.keep {
		f.metrics.IncDropped(string(f.kind))
		return types.Resolved()
	}
	return f.Emit(ctx, x)
}

// BinaryOp folds an accumulator and the next element into a new accumulator.
type BinaryOp func(acc, x types.Element) (types.Element, error)

// ScanNode maintains a running accumulator, emitting the updated value on
// every push after the first (or every push, if a start value is given).
type ScanNode struct {
	Node
	binop BinaryOp

	mu  sync.Mutex
	acc types.Element
	set bool
}

// Scan attaches a ScanNode. start is optional: omit it to seed the
// accumulator from the first pushed element (which is then consumed
// silently, emitting nothing); pass one value to seed it up front, in which
// case every pushed element produces an emission.
func (n *Node) Scan(binop BinaryOp, start ...types.Element) *ScanNode {
	s := &ScanNode{Node: newNode(types.KindScan, n.logger, n.metrics), binop: binop}
	if len(start) > 0 {
		s.acc = start[0]
		s.set = true
	}
	_ = n.Subscribe(s)
	return s
}

func (s *ScanNode) Push(ctx context.Context, x types.Element) types.Token {
	s.metrics.IncPush()
	s.mu.Lock()
	if !s.set {
		s.acc = x
		s.set = true
		s.mu.Unlock()
		return types.Resolved()
	}
	acc, err := s.binop(s.acc, x)
	if err != nil {
		s.mu.Unlock()
		s.metrics.IncCallbackError()
		s.logger.Error("scan callback failed", map[string]any{"error": err.Error()})
		return types.Failed(types.NewUserCallbackError(s.kind, s.id, err))
	}
	s.acc = acc
	s.mu.Unlock()
	return s.Emit(ctx, acc)
}

// FrequenciesNode emits a snapshot of element counts seen so far on every
// push. Pushed elements must be comparable.
type FrequenciesNode struct {
	Node

	mu     sync.Mutex
	counts map[types.Element]int
}

// Frequencies attaches a FrequenciesNode.
func (n *Node) Frequencies() *FrequenciesNode {
	f := &FrequenciesNode{
		Node:   newNode(types.KindFrequencies, n.logger, n.metrics),
		counts: make(map[types.Element]int),
	}
	_ = n.Subscribe(f)
	return f
}

func (f *FrequenciesNode) Push(ctx context.Context, x types.Element) types.Token {
	f.metrics.IncPush()
	f.mu.Lock()
	f.counts[x]++
	snapshot := make(map[types.Element]int, len(f.counts))
	for k, v := range f.counts {
		snapshot[k] = v
	}
	f.mu.Unlock()
	return f.Emit(ctx, snapshot)
}

// ConcatNode expects a slice-valued push and forwards each element in turn,
// awaiting each downstream push before sending the next.
type ConcatNode struct{ Node }

// Concat attaches a ConcatNode.
func (n *Node) Concat() *ConcatNode {
	c := &ConcatNode{Node: newNode(types.KindConcat, n.logger, n.metrics)}
	_ = n.Subscribe(c)
	return c
}

func (c *ConcatNode) Push(ctx context.Context, x types.Element) types.Token {
	c.metrics.IncPush()
	items, err := toElementSlice(x)
	if err != nil {
		c.metrics.IncCallbackError()
		c.logger.Error("concat input not a slice", map[string]any{"error": err.Error()})
		return types.Failed(types.NewUserCallbackError(c.kind, c.id, err))
	}
	var agg *multierror.Error
	for _, item := range items {
		if err := c.Emit(ctx, item).Wait(ctx); err != nil {
			agg = multierror.Append(agg, err)
		}
	}
	if agg == nil {
		return types.Resolved()
	}
	if len(agg.Errors) == 1 {
		return types.Failed(agg.Errors[0])
	}
	return types.Failed(agg)
}

// UniqueOptions configures the Unique operator.
type UniqueOptions struct {
	// Key extracts the comparable dedup key from an element. Nil means the
	// element itself is the key.
	Key func(types.Element) types.Element
	// History bounds how many recent keys are remembered. Non-positive
	// means unbounded (every key ever seen is remembered).
	History int
}

// UniqueNode drops elements whose dedup key has already been seen within
// the configured history window.
type UniqueNode struct {
	Node
	opts UniqueOptions

	mu    sync.Mutex
	seen  map[types.Element]struct{}
	order []types.Element
}

// Unique attaches a UniqueNode.
func (n *Node) Unique(opts UniqueOptions) *UniqueNode {
	u := &UniqueNode{
		Node: newNode(types.KindUnique, n.logger, n.metrics),
		opts: opts,
		seen: make(map[types.Element]struct{}),
	}
	_ = n.Subscribe(u)
	return u
}

func (u *UniqueNode) Push(ctx context.Context, x types.Element) types.Token {
	u.metrics.IncPush()
	key := x
	if u.opts.Key != nil {
		key = u.opts.Key(x)
	}
	u.mu.Lock()
	if _, dup := u.seen[key]; dup {
		u.mu.Unlock()
		u.metrics.IncDropped(string(u.kind))
		return types.Resolved()
	}
	u.seen[key] = struct{}{}
	u.order = append(u.order, key)
	if u.opts.History > 0 && len(u.order) > u.opts.History {
		oldest := u.order[0]
		u.order = u.order[1:]
		delete(u.seen, oldest)
	}
	u.mu.Unlock()
	return u.Emit(ctx, x)
}

// PluckNode extracts a field (by slice index or map key) from every pushed
// element.
type PluckNode struct {
	Node
	index types.Element
}

// Pluck attaches a PluckNode.
func (n *Node) Pluck(index types.Element) *PluckNode {
	p := &PluckNode{Node: newNode(types.KindPluck, n.logger, n.metrics), index: index}
	_ = n.Subscribe(p)
	return p
}

func (p *PluckNode) Push(ctx context.Context, x types.Element) types.Token {
	p.metrics.IncPush()
	v, err := pluckIndex(x, p.index)
	if err != nil {
		p.metrics.IncCallbackError()
		p.logger.Error("pluck index lookup failed", map[string]any{"error": err.Error()})
		return types.Failed(types.NewUserCallbackError(p.kind, p.id, err))
	}
	return p.Emit(ctx, v)
}
