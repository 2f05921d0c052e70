// Package watch implements the continuous rebuild daemon: a filesystem
// watcher over the project root that debounces change bursts and re-runs
// the build, skipping rebuilds whose input signature is unchanged.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/miao-yu/build-process/internal/build"
	"github.com/miao-yu/build-process/internal/logfields"
	"github.com/miao-yu/build-process/internal/metrics"
)

// Options configures the daemon.
type Options struct {
	// Debounce is how long to wait after the last filesystem event before
	// rebuilding. Rapid save bursts collapse into one build.
	Debounce time.Duration
	// MetricsAddr, when non-empty, serves Prometheus metrics on /metrics.
	MetricsAddr string
}

// Daemon watches the project root and rebuilds on change.
type Daemon struct {
	orch     *build.Orchestrator
	spec     build.Spec
	opts     Options
	registry *prom.Registry

	mu       sync.Mutex
	lastGood string // signature of the last successful build
}

// New creates a daemon around an orchestrator and a fixed build spec.
// registry may be nil when no metrics endpoint is configured.
func New(orch *build.Orchestrator, spec build.Spec, opts Options, registry *prom.Registry) *Daemon {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	return &Daemon{orch: orch, spec: spec, opts: opts, registry: registry}
}

// Run performs an initial build, then watches until the context is
// canceled. Build failures do not stop the daemon; the next change gets a
// fresh attempt.
func (d *Daemon) Run(ctx context.Context) error {
	if d.opts.MetricsAddr != "" && d.registry != nil {
		d.serveMetrics(ctx)
	}

	if _, err := d.RebuildOnce(ctx); err != nil {
		slog.Error("initial build failed", logfields.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := d.addDirsRecursive(watcher, d.spec.RootPath); err != nil {
		return err
	}
	slog.Info("watching for changes", logfields.Path(d.spec.RootPath))

	trigger := make(chan struct{}, 1)
	go d.rebuildLoop(ctx, trigger)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if d.ignored(event.Name) {
				continue
			}
			// New directories must be picked up for future events.
			if event.Op.Has(fsnotify.Create) {
				_ = d.addDirsRecursive(watcher, event.Name)
			}
			select {
			case trigger <- struct{}{}:
			default: // a rebuild is already pending
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// rebuildLoop debounces triggers and runs rebuilds.
func (d *Daemon) rebuildLoop(ctx context.Context, trigger <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
		}

		timer := time.NewTimer(d.opts.Debounce)
	drain:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-trigger:
				timer.Reset(d.opts.Debounce)
			case <-timer.C:
				break drain
			}
		}

		if _, err := d.RebuildOnce(ctx); err != nil {
			slog.Error("rebuild failed", logfields.Error(err))
		}
	}
}

// RebuildOnce computes the input signature and builds unless the inputs are
// unchanged since the last successful build. Returns whether a build ran.
func (d *Daemon) RebuildOnce(ctx context.Context) (bool, error) {
	sig, err := build.Signature(d.spec)
	if err != nil {
		slog.Warn("input signature unavailable, rebuilding anyway", logfields.Error(err))
	}

	d.mu.Lock()
	unchanged := sig != "" && sig == d.lastGood
	d.mu.Unlock()
	if unchanged {
		slog.Debug("inputs unchanged, skipping rebuild")
		return false, nil
	}

	if _, err := d.orch.Build(ctx, d.spec); err != nil {
		return true, err
	}

	d.mu.Lock()
	d.lastGood = sig
	d.mu.Unlock()
	return true, nil
}

func (d *Daemon) addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil // raced with a delete
			}
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if d.ignored(p) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// ignored filters the output directory and hidden directories out of the
// watch set so builds do not retrigger themselves.
func (d *Daemon) ignored(p string) bool {
	out := d.spec.Output()
	if p == out || strings.HasPrefix(p, out+string(filepath.Separator)) {
		return true
	}
	base := filepath.Base(p)
	return base != "." && strings.HasPrefix(base, ".")
}

func (d *Daemon) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(d.registry))
	server := &http.Server{Addr: d.opts.MetricsAddr, Handler: mux}

	go func() {
		slog.Info("metrics endpoint listening", slog.String("addr", d.opts.MetricsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics server stopped", logfields.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
