package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miao-yu/build-process/internal/build"
	"github.com/miao-yu/build-process/internal/config"
	"github.com/miao-yu/build-process/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides config)"`
	Clean  bool   `help:"Remove the output directory before building"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output = b.Output
	}

	orch, store, err := newOrchestrator(cfg, nil)
	if err != nil {
		return err
	}
	defer closeStore(store)

	spec := cfg.Spec()
	if b.Clean {
		if err := build.Clean(spec.Output()); err != nil {
			return err
		}
	}

	artifact, err := orch.Build(context.Background(), spec)
	if err != nil {
		return err
	}

	slog.Info("artifacts written", logfields.Path(artifact.OutputDir))
	fmt.Printf("built %s, %s, %s (+%d assets) into %s\n",
		artifact.ScriptFile, artifact.StyleFile, artifact.MarkupFile,
		len(artifact.AssetFiles), artifact.OutputDir)
	return nil
}
