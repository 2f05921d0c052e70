package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/miao-yu/build-process/internal/config"
	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return builderrors.New(builderrors.CategoryConfig, "history.path is not configured")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer closeStore(store)

	records, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no builds recorded")
		return nil
	}

	for _, r := range records {
		line := fmt.Sprintf("%s  %-7s  %6dms  %s",
			r.StartedAt.Format(time.RFC3339), r.Outcome, r.DurationMS, r.BuildID)
		if r.Error != "" {
			line += "  " + r.Error
		}
		fmt.Println(line)
	}
	return nil
}
