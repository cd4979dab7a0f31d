package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

func newTestApp(commands ...*cli.Command) *cli.App {
	app := cli.NewApp()
	app.Commands = commands
	app.ExitErrHandler = func(c *cli.Context, err error) {} // suppress os.Exit
	return app
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tapline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunAction_MissingConfigPath(t *testing.T) {
	app := newTestApp(RunCommand())

	err := app.Run([]string{"tapline", "run"})
	if err == nil {
		t.Fatal("expected error for missing config path")
	}
}

func TestRunAction_StreamDrivesStdinToStdoutSink(t *testing.T) {
	path := writeConfig(t, "source:\n  type: stream\nsink:\n  type: stdout\n")

	app := newTestApp(RunCommand())

	stdin, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	origStdin := os.Stdin
	os.Stdin = stdin
	defer func() { os.Stdin = origStdin }()

	go func() {
		_, _ = w.WriteString("1\n2\n3\n")
		_ = w.Close()
	}()

	if err := app.Run([]string{"tapline", "run", path}); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunAction_InvalidConfigFailsFast(t *testing.T) {
	path := writeConfig(t, "source:\n  type: bogus\n")

	app := newTestApp(RunCommand())

	err := app.Run([]string{"tapline", "run", path})
	if err == nil {
		t.Fatal("expected error for invalid source type")
	}
}
