// Package cmd provides CLI commands for the tapline binary.
package cmd

import "github.com/urfave/cli/v2"

// ForFlag bounds how long a run drives a self-ticking source (counter)
// before stopping. Ignored for stream sources, which run until stdin
// closes or the process is interrupted.
var ForFlag = &cli.DurationFlag{
	Name:  "for",
	Usage: "Stop after this duration (counter sources only; 0 means run until interrupted)",
	Value: 0,
}
