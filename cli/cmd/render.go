package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tapline-dev/tapline/config"
	"github.com/tapline-dev/tapline/iox"
	"github.com/tapline-dev/tapline/render"
)

// RenderCommand returns the render command: build the graph described by a
// config file (without driving it) and print its topology as a tree.
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print the topology of the graph described by a config file",
		ArgsUsage: "<config.yaml>",
		Action:    renderAction,
	}
}

func renderAction(c *cli.Context) error {
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

	fmt.Print(render.Tree(g.Source.AsNode()))
	return nil
}
