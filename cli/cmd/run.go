package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tapline-dev/tapline/adapter"
	"github.com/tapline-dev/tapline/config"
	"github.com/tapline-dev/tapline/iox"
	"github.com/tapline-dev/tapline/types"
)

const (
	exitSuccess = 0
	exitError   = 1
)

// RunCommand returns the run command: build the graph described by a YAML
// config and drive it.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Build and drive the graph described by a config file",
		ArgsUsage: "<config.yaml>",
		Flags:     []cli.Flag{ForFlag},
		Action:    runAction,
	}
}

func runAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("config path required", exitError)
	}
	path := c.Args().Get(0)

	cfg, err := config.Load(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), exitError)
	}

	g, err := config.Build(cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to build graph: %v", err), exitError)
	}
	defer iox.DiscardClose(g)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	started := time.Now()
	var driveErr error
	switch cfg.Source.Type {
	case "", "stream":
		driveErr = driveStream(ctx, g)
	case "counter":
		driveErr = driveCounter(ctx, c.Duration("for"))
	}

	outcome := "success"
	if driveErr != nil && driveErr != context.Canceled {
		outcome = "callback_error"
		fmt.Fprintf(os.Stderr, "run failed: %v\n", driveErr)
	}

	if g.Adapter != nil {
		notifyAdapter(g.Adapter, outcome, started)
	}

	if driveErr != nil && driveErr != context.Canceled {
		return cli.Exit("", exitError)
	}
	return nil
}

// driveStream reads newline-delimited JSON values from stdin, pushing each
// into the graph's source, until stdin closes or ctx is canceled.
func driveStream(ctx context.Context, g *config.Graph) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var x types.Element
		if err := json.Unmarshal(scanner.Bytes(), &x); err != nil {
			return fmt.Errorf("invalid JSON line: %w", err)
		}
		if err := g.Source.Push(ctx, x).Wait(ctx); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// driveCounter waits for the configured duration (or indefinitely, if for
// is zero) while the counter source's own background goroutine drives the
// graph.
func driveCounter(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}

func notifyAdapter(a adapter.Adapter, outcome string, started time.Time) {
	event := &adapter.SinkCompletedEvent{
		ContractVersion: types.Version,
		EventType:       "sink_completed",
		Outcome:         outcome,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DurationMs:      time.Since(started).Milliseconds(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Publish(ctx, event); err != nil {
		fmt.Fprintf(os.Stderr, "warning: adapter notification failed: %v\n", err)
	}
}
