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

// StylePipeline produces the combined, deduplicated style artifact stream
// from an entry point. Like the script pipeline it is a pure entry→artifact
// transform.
type StylePipeline struct {
	inliner StyleInliner
	opts    Options
}

// NewStylePipeline constructs the pipeline around a style inliner.
func NewStylePipeline(inliner StyleInliner, opts Options) *StylePipeline {
	return &StylePipeline{inliner: inliner, opts: opts}
}

// Bundle resolves the entry, delegates to the style inliner, and returns
// the style stream with its seeded source map.
func (p *StylePipeline) Bundle(ctx context.Context, entry string) (*stream.Stream, error) {
	resolved, err := resolveEntry(entry, p.opts.RootPath)
	if err != nil {
		return nil, err
	}

	content, sources, err := p.inliner.Inline(ctx, resolved, p.opts)
	if err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryCollaborator, "style inliner failed").
			WithContext("entry", entry)
	}

	m := sourcemap.Seed(entry)
	for _, src := range sources {
		m.AddSource(src.Path, src.Content)
	}

	finalName := path.Base(entry)
	slog.Debug("style pipeline produced artifact",
		logfields.Stream(string(stream.KindStyle)),
		logfields.Path(entry),
		slog.Int("sources", len(m.Sources)))

	return stream.New(stream.KindStyle, finalName, content, m), nil
}
