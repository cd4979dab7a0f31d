package flow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/types"
)

func TestEmit_NoChildrenResolvesImmediately(t *testing.T) {
	s := flow.NewStream()
	if err := s.Push(context.Background(), 1).Wait(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestEmit_FansOutToAllChildren(t *testing.T) {
	s := flow.NewStream()
	a := s.SinkToList()
	b := s.SinkToList()

	if err := s.Push(context.Background(), "x").Wait(context.Background()); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if got := a.Items(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("sink a: got %v", got)
	}
	if got := b.Items(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("sink b: got %v", got)
	}
}

func TestEmit_BackpressureAwaitsAllChildren(t *testing.T) {
	s := flow.NewStream()
	boom := errors.New("boom")
	_ = s.Sink(func(x types.Element) error { return nil })
	_ = s.Sink(func(x types.Element) error { return boom })

	err := s.Push(context.Background(), 1).Wait(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected aggregated error wrapping boom, got %v", err)
	}
}

func TestSubscribe_DuplicateChildIsStructuralError(t *testing.T) {
	s := flow.NewStream()
	m := s.Map(func(x types.Element) (types.Element, error) { return x, nil })

	err := s.Subscribe(m)
	if !errors.Is(err, types.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestUnsubscribe_StopsFutureDelivery(t *testing.T) {
	s := flow.NewStream()
	sink := s.SinkToList()

	s.Unsubscribe(sink)
	_ = s.Push(context.Background(), 1).Wait(context.Background())

	if got := sink.Items(); len(got) != 0 {
		t.Fatalf("expected no items after unsubscribe, got %v", got)
	}
}
