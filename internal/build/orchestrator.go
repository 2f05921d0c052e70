package build

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miao-yu/build-process/internal/history"
	"github.com/miao-yu/build-process/internal/logfields"
	"github.com/miao-yu/build-process/internal/metrics"
	"github.com/miao-yu/build-process/internal/pipeline"
	"github.com/miao-yu/build-process/internal/relocate"
	"github.com/miao-yu/build-process/internal/stream"
)

// Deps bundles the collaborators and optional infrastructure the
// orchestrator composes.
type Deps struct {
	Bundler  pipeline.ModuleBundler
	Inliner  pipeline.StyleInliner
	Replacer pipeline.TokenReplacer
	Post     pipeline.StaticRewriter // applied to the three textual streams, never the copy stream
	Options  pipeline.Options
	Recorder metrics.Recorder // nil disables metrics
	History  *history.Store   // nil disables build history recording
}

// Orchestrator drives one build: the script and style pipelines run
// concurrently, markup starts from the derived final names, the relocator
// rewrites all three streams, and the writer performs one synchronized
// write. Concurrent overlapping builds against the same output path are not
// supported; last writer wins in that case.
type Orchestrator struct {
	script   *pipeline.ScriptPipeline
	style    *pipeline.StylePipeline
	markup   *pipeline.MarkupPipeline
	post     pipeline.StaticRewriter
	recorder metrics.Recorder
	history  *history.Store
}

// NewOrchestrator composes the pipelines from their collaborators.
func NewOrchestrator(d Deps) *Orchestrator {
	rec := d.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Orchestrator{
		script:   pipeline.NewScriptPipeline(d.Bundler, d.Options),
		style:    pipeline.NewStylePipeline(d.Inliner, d.Options),
		markup:   pipeline.NewMarkupPipeline(d.Replacer, d.Options),
		post:     d.Post,
		recorder: rec,
		history:  d.History,
	}
}

// Build runs one build invocation to completion. All errors are fatal and
// surfaced synchronously; no partial artifact is ever reported as success.
func (o *Orchestrator) Build(ctx context.Context, spec Spec) (*Artifact, error) {
	start := time.Now()
	buildID := newBuildID(start)
	slog.Info("build started", logfields.BuildID(buildID), logfields.Path(spec.RootPath))

	artifact, err := o.run(ctx, spec)

	duration := time.Since(start)
	o.recorder.ObserveBuildDuration(duration)
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	o.recorder.IncBuildOutcome(outcome)
	o.record(ctx, buildID, spec, outcome, err, start, duration)

	if err != nil {
		slog.Error("build failed", logfields.BuildID(buildID), logfields.Error(err),
			logfields.DurationMS(float64(duration.Milliseconds())))
		return nil, err
	}
	slog.Info("build complete", logfields.BuildID(buildID),
		logfields.DurationMS(float64(duration.Milliseconds())),
		slog.Int("assets", len(artifact.AssetFiles)))
	return artifact, nil
}

func (o *Orchestrator) run(ctx context.Context, spec Spec) (*Artifact, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	// Script and style have no data dependency and run concurrently.
	// Markup depends only on the final *names* of the other two, which are
	// derived from the entry paths, so it starts immediately as well.
	scriptName := path.Base(spec.ScriptEntry)
	styleName := path.Base(spec.StyleEntry)

	var scriptStream, styleStream, markupStream *stream.Stream
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t0 := time.Now()
		s, err := o.script.Bundle(gctx, spec.ScriptEntry)
		if err != nil {
			return err
		}
		o.recorder.ObservePipelineDuration(string(stream.KindScript), time.Since(t0))
		scriptStream = s
		return nil
	})
	g.Go(func() error {
		t0 := time.Now()
		s, err := o.style.Bundle(gctx, spec.StyleEntry)
		if err != nil {
			return err
		}
		o.recorder.ObservePipelineDuration(string(stream.KindStyle), time.Since(t0))
		styleStream = s
		return nil
	})
	g.Go(func() error {
		t0 := time.Now()
		s, err := o.markup.Bundle(gctx, spec.MarkupEntry, scriptName, styleName)
		if err != nil {
			return err
		}
		o.recorder.ObservePipelineDuration(string(stream.KindMarkup), time.Since(t0))
		markupStream = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The relocator takes exclusive ownership of all three streams; every
	// upstream stage has finished producing by this point.
	res, err := relocate.Relocate(spec.AssetPaths, scriptStream, styleStream, markupStream, spec.RootPath)
	if err != nil {
		return nil, err
	}

	if o.post != nil {
		res.Script.Content = o.post.Rewrite(res.Script.Content)
		res.Style.Content = o.post.Rewrite(res.Style.Content)
		res.Markup.Content = o.post.Rewrite(res.Markup.Content)
	}

	// Synchronized write: every stream is fully transformed before the
	// first byte hits disk, and the build reports success only after all
	// four streams are consumed.
	writer := stream.NewWriter(spec.Output())
	for _, s := range []*stream.Stream{res.Script, res.Style, res.Markup} {
		if err := writer.WriteStream(s); err != nil {
			return nil, err
		}
	}
	assetFiles, err := writer.CopyAssets(res.Copy)
	if err != nil {
		return nil, err
	}
	o.recorder.AddAssetsRelocated(len(assetFiles))

	return &Artifact{
		OutputDir:  spec.Output(),
		ScriptFile: res.Script.FinalName,
		StyleFile:  res.Style.FinalName,
		MarkupFile: res.Markup.FinalName,
		AssetFiles: assetFiles,
		SourceMaps: []string{res.Script.MapName(), res.Style.MapName(), res.Markup.MapName()},
	}, nil
}

func (o *Orchestrator) record(ctx context.Context, buildID string, spec Spec, outcome string, buildErr error, start time.Time, duration time.Duration) {
	if o.history == nil {
		return
	}
	sig, err := Signature(spec)
	if err != nil {
		slog.Warn("build signature unavailable", logfields.Error(err))
	}
	rec := history.Record{
		BuildID:    buildID,
		Signature:  sig,
		Outcome:    outcome,
		DurationMS: duration.Milliseconds(),
		StartedAt:  start,
	}
	if buildErr != nil {
		rec.Error = buildErr.Error()
	}
	if err := o.history.Append(ctx, rec); err != nil {
		slog.Warn("failed to record build history", logfields.Error(err))
	}
}

func newBuildID(start time.Time) string {
	return fmt.Sprintf("build-%s-%06d", start.Format("20060102-150405"), start.Nanosecond()/1000)
}
