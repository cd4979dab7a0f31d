package sink_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/sink"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := flow.NewStream()
	_ = s.Sink(sink.ToSnapshot(&buf))

	for _, x := range []map[string]any{{"n": 1}, {"n": 2}} {
		if err := s.Push(context.Background(), x).Wait(context.Background()); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	var got []map[string]any
	for {
		var x map[string]any
		err := sink.ReadSnapshotFrame(&buf, &x)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSnapshotFrame: %v", err)
		}
		got = append(got, x)
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if toInt64(got[0]["n"]) != 1 || toInt64(got[1]["n"]) != 2 {
		t.Fatalf("got %v", got)
	}
}

func toInt64(x any) int64 {
	switch v := x.(type) {
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	default:
		return -1
	}
}
