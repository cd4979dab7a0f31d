package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v2"

	"github.com/tapline-dev/tapline/types"
)

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		fmt.Printf("tapline %s (commit: %s)\n", types.Version, commit)
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Printf("go: %s\n", info.GoVersion)
		}
		return nil
	}
}
