package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/miao-yu/build-process/internal/config"
	"github.com/miao-yu/build-process/internal/metrics"
	"github.com/miao-yu/build-process/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce    time.Duration `help:"Delay after the last change before rebuilding (overrides config)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides config)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.MetricsAddr != "" {
		cfg.Watch.MetricsAddr = w.MetricsAddr
	}

	var registry *prom.Registry
	var recorder metrics.Recorder
	if cfg.Watch.MetricsAddr != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	orch, store, err := newOrchestrator(cfg, recorder)
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	daemon := watch.New(orch, cfg.Spec(), watch.Options{
		Debounce:    cfg.Watch.Debounce,
		MetricsAddr: cfg.Watch.MetricsAddr,
	}, registry)

	err = daemon.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
