package flow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/types"
)

func push(t *testing.T, n flow.Pushable, x types.Element) error {
	t.Helper()
	return n.Push(context.Background(), x).Wait(context.Background())
}

func TestMap(t *testing.T) {
	s := flow.NewStream()
	out := s.Map(func(x types.Element) (types.Element, error) { return x.(int) * 2, nil }).SinkToList()

	for _, x := range []int{1, 2, 3} {
		if err := push(t, s, x); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	got := out.Items()
	want := []types.Element{2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMap_CallbackErrorIsUserCallbackError(t *testing.T) {
	s := flow.NewStream()
	boom := errors.New("boom")
	m := s.Map(func(x types.Element) (types.Element, error) { return nil, boom })

	err := push(t, m, 1)
	var ucErr *types.UserCallbackError
	if !errors.As(err, &ucErr) {
		t.Fatalf("expected *UserCallbackError, got %v", err)
	}
}

func TestFilterAndRemove(t *testing.T) {
	s := flow.NewStream()
	isEven := func(x types.Element) (bool, error) { return x.(int)%2 == 0, nil }
	kept := s.Filter(isEven).SinkToList()
	dropped := s.Remove(isEven).SinkToList()

	for _, x := range []int{1, 2, 3, 4} {
		_ = push(t, s, x)
	}
	if got := kept.Items(); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("filter: got %v", got)
	}
	if got := dropped.Items(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("remove: got %v", got)
	}
}

func TestScan_NoStartSkipsFirstElement(t *testing.T) {
	s := flow.NewStream()
	sum := func(acc, x types.Element) (types.Element, error) { return acc.(int) + x.(int), nil }
	out := s.Scan(sum).SinkToList()

	for _, x := range []int{1, 2, 3} {
		_ = push(t, s, x)
	}
	got := out.Items()
	want := []types.Element{3, 6}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScan_WithStartEmitsOnFirstPush(t *testing.T) {
	s := flow.NewStream()
	sum := func(acc, x types.Element) (types.Element, error) { return acc.(int) + x.(int), nil }
	out := s.Scan(sum, 0).SinkToList()

	for _, x := range []int{1, 2, 3} {
		_ = push(t, s, x)
	}
	got := out.Items()
	want := []types.Element{1, 3, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFrequencies(t *testing.T) {
	s := flow.NewStream()
	out := s.Frequencies().SinkToList()

	for _, x := range []string{"a", "b", "a"} {
		_ = push(t, s, x)
	}
	items := out.Items()
	last := items[len(items)-1].(map[types.Element]int)
	if last["a"] != 2 || last["b"] != 1 {
		t.Fatalf("got %v", last)
	}
}

func TestConcat_PushesEachElementInOrder(t *testing.T) {
	s := flow.NewStream()
	out := s.Concat().SinkToList()

	_ = push(t, s, []types.Element{1, 2, 3})
	_ = push(t, s, []types.Element{4})

	got := out.Items()
	want := []types.Element{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestConcat_RejectsNonSlice(t *testing.T) {
	s := flow.NewStream()
	c := s.Concat()
	err := push(t, c, 5)
	var ucErr *types.UserCallbackError
	if !errors.As(err, &ucErr) {
		t.Fatalf("expected *UserCallbackError, got %v", err)
	}
}

func TestUnique_DefaultIdentityUnbounded(t *testing.T) {
	s := flow.NewStream()
	out := s.Unique(flow.UniqueOptions{}).SinkToList()

	for _, x := range []int{1, 2, 1, 3, 2} {
		_ = push(t, s, x)
	}
	got := out.Items()
	want := []types.Element{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUnique_BoundedHistoryForgetsOldKeys(t *testing.T) {
	s := flow.NewStream()
	out := s.Unique(flow.UniqueOptions{History: 2}).SinkToList()

	for _, x := range []int{1, 2, 3, 1} {
		_ = push(t, s, x)
	}
	got := out.Items()
	want := []types.Element{1, 2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v (1 should resurface once forgotten)", got, want)
	}
}

func TestPluck_SliceIndex(t *testing.T) {
	s := flow.NewStream()
	out := s.Pluck(1).SinkToList()

	_ = push(t, s, []types.Element{"a", "b", "c"})
	got := out.Items()
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestPluck_MapKey(t *testing.T) {
	s := flow.NewStream()
	out := s.Pluck("name").SinkToList()

	_ = push(t, s, map[types.Element]types.Element{"name": "alice"})
	got := out.Items()
	if len(got) != 1 || got[0] != "alice" {
		t.Fatalf("got %v", got)
	}
}
