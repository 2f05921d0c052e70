package commands

import (
	"fmt"

	"github.com/miao-yu/build-process/internal/build"
	"github.com/miao-yu/build-process/internal/config"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	Output string `short:"o" help:"Output directory (overrides config)"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	out := cfg.Output
	if c.Output != "" {
		out = c.Output
	}
	if err := build.Clean(out); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", out)
	return nil
}
