package flow_test

import (
	"context"
	"testing"
	"time"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/types"
)

func TestUnion_ForwardsFromEitherParent(t *testing.T) {
	a := flow.NewStream()
	b := flow.NewStream()
	u, err := flow.Union(a, b)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	out := u.SinkToList()

	_ = push(t, a, 1)
	_ = push(t, b, 2)
	_ = push(t, a, 3)

	got := out.Items()
	want := []types.Element{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnion_RequiresAtLeastOneParent(t *testing.T) {
	if _, err := flow.Union(); err == nil {
		t.Fatal("expected structural error")
	}
}

func TestZip_PairsInArrivalOrder(t *testing.T) {
	a := flow.NewStream()
	b := flow.NewStream()
	z, err := flow.Zip(0, a, b)
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}
	out := z.SinkToList()

	_ = push(t, a, 1)
	_ = push(t, a, 2)
	_ = push(t, b, "x")
	_ = push(t, b, "y")

	got := out.Items()
	if len(got) != 2 {
		t.Fatalf("expected 2 tuples, got %v", got)
	}
	first := got[0].([]types.Element)
	second := got[1].([]types.Element)
	if first[0] != 1 || first[1] != "x" {
		t.Fatalf("first tuple: %v", first)
	}
	if second[0] != 2 || second[1] != "y" {
		t.Fatalf("second tuple: %v", second)
	}
}

func TestZip_BoundedQueueDeliversAsRoomFrees(t *testing.T) {
	a := flow.NewStream()
	b := flow.NewStream()
	z, err := flow.Zip(2, a, b)
	if err != nil {
		t.Fatalf("Zip: %v", err)
	}
	out := z.SinkToList()

	_ = push(t, a, 1)
	_ = push(t, a, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := a.Push(ctx, 3).Wait(ctx); err == nil {
		t.Fatal("expected third push into 'a' to pend past a short deadline")
	}

	_ = push(t, b, "x")
	got := out.Items()
	if len(got) != 1 {
		t.Fatalf("expected one tuple emitted, got %v", got)
	}
	tuple := got[0].([]types.Element)
	if tuple[0] != 1 || tuple[1] != "x" {
		t.Fatalf("got %v", tuple)
	}
}

func TestCombineLatest_EmitsOnceAllSet(t *testing.T) {
	a := flow.NewStream()
	b := flow.NewStream()
	c, err := flow.CombineLatest(nil, a, b)
	if err != nil {
		t.Fatalf("CombineLatest: %v", err)
	}
	out := c.SinkToList()

	_ = push(t, a, 1)
	if got := out.Items(); len(got) != 0 {
		t.Fatalf("expected no emission before both parents set, got %v", got)
	}

	_ = push(t, b, "x")
	got := out.Items()
	if len(got) != 1 {
		t.Fatalf("expected one emission, got %v", got)
	}
	tuple := got[0].([]types.Element)
	if tuple[0] != 1 || tuple[1] != "x" {
		t.Fatalf("got %v", tuple)
	}

	_ = push(t, a, 2)
	got = out.Items()
	if len(got) != 2 {
		t.Fatalf("expected a second emission on next push, got %v", got)
	}
}

func TestCombineLatest_EmitOnRestrictsTriggerParents(t *testing.T) {
	a := flow.NewStream()
	b := flow.NewStream()
	c, err := flow.CombineLatest([]int{0}, a, b)
	if err != nil {
		t.Fatalf("CombineLatest: %v", err)
	}
	out := c.SinkToList()

	_ = push(t, a, 1)
	_ = push(t, b, "x")
	if got := out.Items(); len(got) != 0 {
		t.Fatalf("expected no emission: b is not a trigger parent, got %v", got)
	}

	_ = push(t, a, 2)
	got := out.Items()
	if len(got) != 1 {
		t.Fatalf("expected one emission triggered by parent 0, got %v", got)
	}
}
