package pipeline

import (
	"context"
	"log/slog"
	"path"

	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/logfields"
	"github.com/miao-yu/build-process/internal/sourcemap"
	"github.com/miao-yu/build-process/internal/stream"
)

// ScriptPipeline produces the combined script artifact stream from an entry
// point. It is a pure entry→artifact transform: it knows nothing about
// assets or the other pipelines.
type ScriptPipeline struct {
	bundler ModuleBundler
	opts    Options
}

// NewScriptPipeline constructs the pipeline around a module bundler.
func NewScriptPipeline(bundler ModuleBundler, opts Options) *ScriptPipeline {
	return &ScriptPipeline{bundler: bundler, opts: opts}
}

// Bundle resolves the entry, delegates to the module bundler, and returns
// the script stream with its seeded source map. Collaborator failures are
// fatal; no partial output is produced for this resource.
func (p *ScriptPipeline) Bundle(ctx context.Context, entry string) (*stream.Stream, error) {
	resolved, err := resolveEntry(entry, p.opts.RootPath)
	if err != nil {
		return nil, err
	}

	content, sources, err := p.bundler.Bundle(ctx, resolved, p.opts)
	if err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryCollaborator, "module bundler failed").
			WithContext("entry", entry)
	}

	m := sourcemap.Seed(entry)
	for _, src := range sources {
		m.AddSource(src.Path, src.Content)
	}

	finalName := path.Base(entry)
	slog.Debug("script pipeline produced artifact",
		logfields.Stream(string(stream.KindScript)),
		logfields.Path(entry),
		slog.Int("sources", len(m.Sources)))

	return stream.New(stream.KindScript, finalName, content, m), nil
}
