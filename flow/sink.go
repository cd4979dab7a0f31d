package flow

import (
	"context"
	"sync"

	"github.com/tapline-dev/tapline/types"
)

// SinkFunc consumes a terminal element. An error surfaces as a
// *types.UserCallbackError.
type SinkFunc func(types.Element) error

// SinkNode is a terminal operator: it never has children of its own, but
// nothing prevents Subscribe being called on one (the graph does not
// enforce terminality, callers just don't usually bother).
type SinkNode struct {
	Node
	f SinkFunc
}

// Sink attaches a SinkNode that calls f for every pushed element.
func (n *Node) Sink(f SinkFunc) *SinkNode {
	s := &SinkNode{Node: newNode(types.KindSink, n.logger, n.metrics), f: f}
	_ = n.Subscribe(s)
	return s
}

func (s *SinkNode) Push(ctx context.Context, x types.Element) types.Token {
	s.metrics.IncPush()
	if err := s.f(x); err != nil {
		s.metrics.IncCallbackError()
		s.logger.Error("sink callback failed", map[string]any{"error": err.Error()})
		return types.Failed(types.NewUserCallbackError(s.kind, s.id, err))
	}
	return types.Resolved()
}

// SinkToListNode is a SinkNode that accumulates every pushed element into an
// in-memory slice, mainly useful in tests and small scripts.
type SinkToListNode struct {
	*SinkNode

	mu    sync.Mutex
	items []types.Element
}

// SinkToList attaches a SinkToListNode.
func (n *Node) SinkToList() *SinkToListNode {
	s := &SinkToListNode{}
	s.SinkNode = n.Sink(func(x types.Element) error {
		s.mu.Lock()
		s.items = append(s.items, x)
		s.mu.Unlock()
		return nil
	})
	return s
}

// Items returns a snapshot of every element collected so far.
func (s *SinkToListNode) Items() []types.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Element, len(s.items))
	copy(out, s.items)
	return out
}
