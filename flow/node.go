// Package flow implements the dataflow graph: the Node base contract, every
// stateless transform, the buffering/ordering operators, the multi-input
// operators, the time-driven operators, and the two built-in sources
// (Stream, Counter).
package flow

import (
	"context"
	"sync"

	"github.com/tapline-dev/tapline/log"
	"github.com/tapline-dev/tapline/metrics"
	"github.com/tapline-dev/tapline/types"
)

// Pushable is satisfied by every node in the graph: something with a stable
// identity that accepts an element and returns a completion token.
type Pushable interface {
	ID() types.NodeID
	Push(ctx context.Context, x types.Element) types.Token
}

// Subscriber is a Pushable that can also accept subscriptions and report
// its logger/metrics for descendants to inherit. It is deliberately
// unexported-method-gated (observability) so only this package's node
// types can serve as a parent to the free-standing multi-input
// constructors (Union, Zip, CombineLatest).
type Subscriber interface {
	Pushable
	Subscribe(child Pushable) error
	Unsubscribe(child Pushable)
	observability() (*log.Logger, *metrics.Collector)
}

// Node is the common base embedded by every concrete operator type. It owns
// child-list bookkeeping and the fan-out Emit implementation; each operator
// type supplies its own Push, typically ending in a call to Emit.
type Node struct {
	id   types.NodeID
	kind types.NodeKind

	mu       sync.Mutex
	children []Pushable
	childIDs map[types.NodeID]struct{}

	logger  *log.Logger
	metrics *metrics.Collector
}

func newNode(kind types.NodeKind, logger *log.Logger, coll *metrics.Collector) Node {
	if logger == nil {
		logger = log.NewLogger("graph")
	}
	if coll == nil {
		coll = metrics.NewCollector()
	}
	id := types.NewNodeID()
	return Node{
		id:       id,
		kind:     kind,
		childIDs: make(map[types.NodeID]struct{}),
		logger:   logger.WithNode(kind, id),
		metrics:  coll,
	}
}

// ID implements Pushable.
func (n *Node) ID() types.NodeID { return n.id }

// Kind returns the node's operator kind, for logging/metrics/rendering.
func (n *Node) Kind() types.NodeKind { return n.kind }

// Describe implements render.Describable.
func (n *Node) Describe() string { return string(n.kind) + " " + string(n.id)[:8] }

func (n *Node) observability() (*log.Logger, *metrics.Collector) { return n.logger, n.metrics }

// AsNode returns n itself, promoted onto every concrete operator type that
// embeds Node. Lets code building a chain generically (e.g. config-driven
// pipelines) hold a *Node handle and keep attaching further stages without
// knowing the concrete operator type at each step.
func (n *Node) AsNode() *Node { return n }

// Subscribe registers child as a downstream subscriber. Returns a
// *types.StructuralError if child is already subscribed to this node.
func (n *Node) Subscribe(child Pushable) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.childIDs[child.ID()]; exists {
		n.metrics.IncStructuralError()
		n.logger.Warn("duplicate subscribe rejected", map[string]any{"child_id": string(child.ID())})
		return types.NewStructuralError("subscribe", "child already subscribed to this parent")
	}
	n.childIDs[child.ID()] = struct{}{}
	n.children = append(n.children, child)
	return nil
}

// Unsubscribe removes child from the downstream subscriber list, if present.
func (n *Node) Unsubscribe(child Pushable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.childIDs[child.ID()]; !exists {
		return
	}
	delete(n.childIDs, child.ID())
	for i, c := range n.children {
		if c.ID() == child.ID() {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
}

// Children returns a snapshot of the current downstream subscribers, for
// render.Tree and tests. Safe to call concurrently with Emit.
func (n *Node) Children() []Pushable { return n.snapshotChildren() }

func (n *Node) snapshotChildren() []Pushable {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Pushable, len(n.children))
	copy(out, n.children)
	return out
}

// Emit fans x out to every child, returning a token that resolves once
// every child's Push token resolves. A node with no children resolves
// immediately — pushing into a dangling subgraph is never an error.
func (n *Node) Emit(ctx context.Context, x types.Element) types.Token {
	n.metrics.IncEmit()
	children := n.snapshotChildren()
	if len(children) == 0 {
		return types.Resolved()
	}
	tokens := make([]types.Token, len(children))
	for i, c := range children {
		tokens[i] = c.Push(ctx, x)
	}
	return types.All(tokens...)
}
