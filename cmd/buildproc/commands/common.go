package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/miao-yu/build-process/internal/build"
	"github.com/miao-yu/build-process/internal/collab"
	"github.com/miao-yu/build-process/internal/config"
	"github.com/miao-yu/build-process/internal/history"
	"github.com/miao-yu/build-process/internal/logfields"
	"github.com/miao-yu/build-process/internal/metrics"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"build.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Run one build: bundle script, style, and markup entries and relocate assets"`
	Clean   CleanCmd   `cmd:"" help:"Remove the output directory"`
	Watch   WatchCmd   `cmd:"" help:"Watch the project root and rebuild on change"`
	History HistoryCmd `cmd:"" help:"Show recent build invocations"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newOrchestrator assembles the orchestrator with the reference
// collaborators, plus the optional history store from configuration.
func newOrchestrator(cfg *config.Config, rec metrics.Recorder) (*build.Orchestrator, *history.Store, error) {
	var store *history.Store
	if cfg.History.Path != "" {
		var err error
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
	}

	orch := build.NewOrchestrator(build.Deps{
		Bundler:  collab.NewConcatBundler(),
		Inliner:  collab.NewImportInliner(),
		Replacer: collab.NewTemplateReplacer(),
		Post:     collab.NewPrefixRewriter(cfg.Static.Prefix, cfg.Static.Replacement),
		Options:  cfg.PipelineOptions(),
		Recorder: rec,
		History:  store,
	})
	return orch, store, nil
}

func closeStore(store *history.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		slog.Warn("failed to close history store", logfields.Error(err))
	}
}
