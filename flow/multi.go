package flow

import (
	"context"
	"sync"

	"github.com/tapline-dev/tapline/types"
)

// parentAdapter is subscribed to one specific parent of a multi-input node
// and forwards pushes to owner tagged with that parent's index.
type parentAdapter struct {
	Node
	owner multiInput
	index int
}

type multiInput interface {
	pushFrom(ctx context.Context, idx int, x types.Element) types.Token
}

func (a *parentAdapter) Push(ctx context.Context, x types.Element) types.Token {
	return a.owner.pushFrom(ctx, a.index, x)
}

func subscribeAdapters(owner multiInput, kind types.NodeKind, parents []Subscriber) ([]parentAdapter, error) {
	if len(parents) == 0 {
		return nil, types.NewStructuralError(string(kind), "at least one parent is required")
	}
	logger, coll := parents[0].observability()
	adapters := make([]parentAdapter, len(parents))
	for i, p := range parents {
		adapters[i] = parentAdapter{Node: newNode(kind, logger, coll), owner: owner, index: i}
		if err := p.Subscribe(&adapters[i]); err != nil {
			return nil, err
		}
	}
	return adapters, nil
}

// UnionNode forwards every element pushed by any of its parents, in
// whatever order they arrive.
type UnionNode struct{ Node }

// Union attaches a UnionNode as a child of every parent listed.
func Union(parents ...Subscriber) (*UnionNode, error) {
	if len(parents) == 0 {
		return nil, types.NewStructuralError("union", "at least one parent is required")
	}
	logger, coll := parents[0].observability()
	u := &UnionNode{Node: newNode(types.KindUnion, logger, coll)}
	for _, p := range parents {
		if err := p.Subscribe(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (u *UnionNode) Push(ctx context.Context, x types.Element) types.Token {
	u.metrics.IncPush()
	return u.Emit(ctx, x)
}

// ZipNode pairs up one element from each parent, in arrival order per
// parent, emitting a tuple ([]types.Element, one slot per parent) once every
// parent has at least one element queued.
type ZipNode struct {
	Node
	maxsize int

	mu      sync.Mutex
	queues  [][]types.Element
	pending [][]zipPending
}

type zipPending struct {
	x       types.Element
	resolve func(error)
}

// Zip attaches a ZipNode. maxsize bounds each parent's internal queue;
// non-positive means unbounded. A push that would exceed maxsize returns a
// token that only resolves once another parent catches up and frees room.
func Zip(maxsize int, parents ...Subscriber) (*ZipNode, error) {
	z := &ZipNode{maxsize: maxsize}
	adapters, err := subscribeAdapters(z, types.KindZip, parents)
	if err != nil {
		return nil, err
	}
	logger, coll := parents[0].observability()
	z.Node = newNode(types.KindZip, logger, coll)
	z.queues = make([][]types.Element, len(adapters))
	z.pending = make([][]zipPending, len(adapters))
	return z, nil
}

func (z *ZipNode) pushFrom(ctx context.Context, idx int, x types.Element) types.Token {
	z.metrics.IncPush()
	z.mu.Lock()
	if z.maxsize > 0 && len(z.queues[idx]) >= z.maxsize {
		tok, resolve := types.NewChanToken()
		z.pending[idx] = append(z.pending[idx], zipPending{x: x, resolve: resolve})
		z.mu.Unlock()
		return tok
	}
	z.queues[idx] = append(z.queues[idx], x)
	var tuples [][]types.Element
	for {
		tuple, ok := z.tryPopLocked()
		if !ok {
			break
		}
		tuples = append(tuples, tuple)
	}
	z.mu.Unlock()

	if len(tuples) == 0 {
		return types.Resolved()
	}
	tokens := make([]types.Token, len(tuples))
	for i, tuple := range tuples {
		tokens[i] = z.Emit(ctx, tuple)
	}
	return types.All(tokens...)
}

// tryPopLocked pops one element from every parent queue, if all are
// non-empty, admitting any pending append that the pop frees room for.
// Caller must hold z.mu.
func (z *ZipNode) tryPopLocked() ([]types.Element, bool) {
	for _, q := range z.queues {
		if len(q) == 0 {
			return nil, false
		}
	}
	tuple := make([]types.Element, len(z.queues))
	for i := range z.queues {
		tuple[i] = z.queues[i][0]
		z.queues[i] = z.queues[i][1:]
		z.admitPendingLocked(i)
	}
	return tuple, true
}

func (z *ZipNode) admitPendingLocked(i int) {
	if z.maxsize > 0 && len(z.queues[i]) >= z.maxsize {
		return
	}
	if len(z.pending[i]) == 0 {
		return
	}
	p := z.pending[i][0]
	z.pending[i] = z.pending[i][1:]
	z.queues[i] = append(z.queues[i], p.x)
	p.resolve(nil)
}

// CombineLatestNode tracks the most recent value from each parent, emitting
// a full snapshot tuple once every parent has produced at least one value
// and the push arrived on one of the configured trigger parents.
type CombineLatestNode struct {
	Node
	emitOn map[int]bool

	mu    sync.Mutex
	slots []types.Element
	set   []bool
}

// CombineLatest attaches a CombineLatestNode. emitOn lists the indices (into
// parents) whose push should trigger a new emission; an empty emitOn means
// every parent triggers.
func CombineLatest(emitOn []int, parents ...Subscriber) (*CombineLatestNode, error) {
	c := &CombineLatestNode{}
	adapters, err := subscribeAdapters(c, types.KindCombineLatest, parents)
	if err != nil {
		return nil, err
	}
	logger, coll := parents[0].observability()
	c.Node = newNode(types.KindCombineLatest, logger, coll)
	c.slots = make([]types.Element, len(adapters))
	c.set = make([]bool, len(adapters))
	c.emitOn = make(map[int]bool, len(emitOn))
	if len(emitOn) == 0 {
		for i := range adapters {
			c.emitOn[i] = true
		}
	} else {
		for _, i := range emitOn {
			c.emitOn[i] = true
		}
	}
	return c, nil
}

func (c *CombineLatestNode) pushFrom(ctx context.Context, idx int, x types.Element) types.Token {
	c.metrics.IncPush()
	c.mu.Lock()
	c.slots[idx] = x
	c.set[idx] = true
	allSet := true
	for _, s := range c.set {
		if !s {
			allSet = false
			break
		}
	}
	trigger := allSet && c.emitOn[idx]
	var snapshot []types.Element
	if trigger {
		snapshot = append([]types.Element(nil), c.slots...)
	}
	c.mu.Unlock()
	if !trigger {
		return types.Resolved()
	}
	return c.Emit(ctx, snapshot)
}
