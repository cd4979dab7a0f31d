package config

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tapline-dev/tapline/adapter"
	adapterredis "github.com/tapline-dev/tapline/adapter/redis"
	"github.com/tapline-dev/tapline/adapter/webhook"
	"github.com/tapline-dev/tapline/flow"
	"github.com/tapline-dev/tapline/iox"
	"github.com/tapline-dev/tapline/sink"
	"github.com/tapline-dev/tapline/types"
)

// Source is a graph entry point: a node a caller can drive (by calling
// Push, for a Stream) or that drives itself (a Counter).
type Source interface {
	flow.Pushable
	AsNode() *flow.Node
}

// Graph is a built, ready-to-drive pipeline: a source, an optional terminal
// sink list (for the "list" sink type), and an optional downstream adapter.
type Graph struct {
	Source  Source
	Adapter adapter.Adapter
	List    *flow.SinkToListNode // non-nil only when sink.type == "list"

	closers []io.Closer
}

// stoppable is implemented by sources with a background goroutine (Counter)
// that must be halted on shutdown.
type stoppable interface {
	Stop()
}

// Close releases any resources opened while building the graph: it halts a
// background source (Counter), closes file sink handles, and closes the
// adapter connection.
func (g *Graph) Close() error {
	if s, ok := g.Source.(stoppable); ok {
		s.Stop()
	}
	for _, c := range g.closers {
		iox.DiscardClose(c)
	}
	if g.Adapter != nil {
		return g.Adapter.Close()
	}
	return nil
}

// Build constructs a graph from cfg: the source, the pipeline stages applied
// in sequence, the terminal sink, and the downstream adapter, if configured.
func Build(cfg *Config) (*Graph, error) {
	source, err := buildSource(cfg.Source)
	if err != nil {
		return nil, err
	}

	g := &Graph{Source: source}

	cur := source.AsNode()
	for i, stage := range cfg.Pipeline {
		next, err := attachStage(cur, stage)
		if err != nil {
			return nil, fmt.Errorf("config: pipeline stage %d (%s): %w", i, stage.Kind, err)
		}
		cur = next
	}

	if cfg.Sink != nil {
		if err := attachSink(g, cur, cfg.Sink); err != nil {
			return nil, err
		}
	}

	if cfg.Adapter != nil {
		a, err := buildAdapter(cfg.Adapter)
		if err != nil {
			return nil, err
		}
		g.Adapter = a
	}

	return g, nil
}

func buildSource(cfg SourceConfig) (Source, error) {
	switch cfg.Type {
	case "", "stream":
		return flow.NewStream(), nil
	case "counter":
		return flow.NewCounter(cfg.Interval.Duration), nil
	default:
		return nil, fmt.Errorf("config: unknown source type %q", cfg.Type)
	}
}

func attachStage(cur *flow.Node, stage StageConfig) (*flow.Node, error) {
	switch stage.Kind {
	case "partition":
		n, err := cur.Partition(stage.Size)
		if err != nil {
			return nil, err
		}
		return n.AsNode(), nil
	case "sliding_window":
		n, err := cur.SlidingWindow(stage.Size)
		if err != nil {
			return nil, err
		}
		return n.AsNode(), nil
	case "collect":
		return cur.Collect().AsNode(), nil
	case "unique":
		return cur.Unique(flow.UniqueOptions{History: stage.History}).AsNode(), nil
	case "frequencies":
		return cur.Frequencies().AsNode(), nil
	case "pluck":
		return cur.Pluck(pluckIndexElement(stage.Index)).AsNode(), nil
	case "rate_limit":
		return cur.RateLimit(stage.Interval.Duration).AsNode(), nil
	case "delay":
		return cur.Delay(stage.Interval.Duration).AsNode(), nil
	case "buffer":
		return cur.Buffer(stage.Size).AsNode(), nil
	case "timed_window":
		return cur.TimedWindow(stage.Interval.Duration).AsNode(), nil
	default:
		return nil, fmt.Errorf("unknown stage kind %q", stage.Kind)
	}
}

// pluckIndexElement interprets a YAML "index" string as an integer slice
// index when possible, falling back to a string map key.
func pluckIndexElement(index string) types.Element {
	if n, err := strconv.Atoi(index); err == nil {
		return n
	}
	return index
}

func attachSink(g *Graph, cur *flow.Node, cfg *SinkConfig) error {
	switch cfg.Type {
	case "stdout":
		cur.Sink(sink.ToStdout())
		return nil
	case "file":
		if cfg.Path == "" {
			return fmt.Errorf("config: file sink requires a path")
		}
		f, err := sink.NewLocalFile(cfg.Path)
		if err != nil {
			return fmt.Errorf("config: open file sink: %w", err)
		}
		cur.Sink(sink.ToFile(f))
		g.closers = append(g.closers, f)
		return nil
	case "list":
		g.List = cur.SinkToList()
		return nil
	default:
		return fmt.Errorf("config: unknown sink type %q", cfg.Type)
	}
}

func buildAdapter(cfg *AdapterConfig) (adapter.Adapter, error) {
	switch cfg.Type {
	case "webhook":
		wc := webhook.Config{URL: cfg.URL, Headers: cfg.Headers, Timeout: cfg.Timeout.Duration}
		if cfg.Retries != nil {
			wc.Retries = *cfg.Retries
		}
		return webhook.New(wc)
	case "redis":
		rc := adapterredis.Config{URL: cfg.URL, Channel: cfg.Channel, Timeout: cfg.Timeout.Duration}
		if cfg.Retries != nil {
			rc.Retries = *cfg.Retries
		}
		return adapterredis.New(rc)
	default:
		return nil, fmt.Errorf("config: unknown adapter type %q", cfg.Type)
	}
}
