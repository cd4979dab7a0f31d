package render_test

import (
	"strings"
	"testing"

	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/render"
	"github.com/tapline-dev/tapline/types"
)

func TestTree_RendersBranches(t *testing.T) {
	s := flow.NewStream()
	m := s.Map(func(x types.Element) (types.Element, error) { return x, nil })
	_ = m.SinkToList()
	_ = s.Filter(func(x types.Element) (bool, error) { return true, nil })

	out := render.Tree(s)
	if !strings.Contains(out, "stream") {
		t.Fatalf("expected root label in output, got %q", out)
	}
	if !strings.Contains(out, "map") {
		t.Fatalf("expected map branch in output, got %q", out)
	}
	if !strings.Contains(out, "filter") {
		t.Fatalf("expected filter branch in output, got %q", out)
	}
	if !strings.Contains(out, "sink") {
		t.Fatalf("expected sink leaf in output, got %q", out)
	}
}

func TestTree_TerminalNodeHasNoChildren(t *testing.T) {
	s := flow.NewStream()
	sink := s.Sink(func(types.Element) error { return nil })
	out := render.Tree(sink)
	if strings.Count(out, "\n") > 1 {
		t.Fatalf("expected a single-line tree for a childless sink, got %q", out)
	}
}
