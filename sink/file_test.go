package sink_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/sink"
)

func TestToFile_StubRecordsElements(t *testing.T) {
	stub := sink.NewStubFileWriter()
	s := flow.NewStream()
	_ = s.Sink(sink.ToFile(stub))

	for _, x := range []string{"a", "b"} {
		if err := s.Push(context.Background(), x).Wait(context.Background()); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if got := stub.Items(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestLocalFile_WritesOneLinePerElement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	f, err := sink.NewLocalFile(path)
	if err != nil {
		t.Fatalf("NewLocalFile: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	s := flow.NewStream()
	_ = s.Sink(sink.ToFile(f))

	if err := s.Push(context.Background(), map[string]any{"x": 1}).Wait(context.Background()); err != nil {
		t.Fatalf("push: %v", err)
	}
}
