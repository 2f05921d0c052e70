package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path"

	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/logfields"
	"github.com/miao-yu/build-process/internal/sourcemap"
	"github.com/miao-yu/build-process/internal/stream"
)

// Placeholder token names. These are part of the external contract with
// markup entry files and must stay stable.
const (
	TokenScript         = "js"
	TokenStyle          = "css"
	TokenBrowserWarning = "browser-warning"
)

// BrowserWarningFragment is the fixed root-relative path of the
// compatibility-warning fragment substituted for the browser-warning token.
const BrowserWarningFragment = "src/browser_warning/browser_warning.html"

// MarkupPipeline produces the final markup artifact by substituting the
// three named placeholders into an entry markup file. It depends only on
// the *final filenames* of the script and style artifacts, not on their
// content, so it can run as soon as those names are derived.
type MarkupPipeline struct {
	replacer TokenReplacer
	opts     Options
}

// NewMarkupPipeline constructs the pipeline around a token replacer.
func NewMarkupPipeline(replacer TokenReplacer, opts Options) *MarkupPipeline {
	return &MarkupPipeline{replacer: replacer, opts: opts}
}

// Bundle reads the markup entry and performs exactly three named
// substitutions: js → scriptFinalName, css → styleFinalName, and
// browser-warning → the contents of the fixed fragment under the root path.
// A placeholder missing from the entry is skipped, never an error — markup
// entries are heterogeneous and may omit any of the three.
func (p *MarkupPipeline) Bundle(ctx context.Context, entry, scriptFinalName, styleFinalName string) (*stream.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryInternal, "markup pipeline canceled")
	}

	resolved, err := resolveEntry(entry, p.opts.RootPath)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryResolution, "read markup entry").
			WithContext("entry", entry)
	}

	fragmentPath := path.Join(p.opts.RootPath, BrowserWarningFragment)
	fragment, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryResolution, "read browser warning fragment").
			WithContext("path", fragmentPath)
	}

	content, subs := p.replacer.Replace(string(raw), map[string]string{
		TokenScript:         scriptFinalName,
		TokenStyle:          styleFinalName,
		TokenBrowserWarning: string(fragment),
	})
	for _, sub := range subs {
		if sub.Outcome == OutcomeSkipped {
			slog.Debug("markup placeholder not present, skipped",
				slog.String("token", sub.Token), logfields.Path(entry))
		}
	}

	m := sourcemap.Seed(entry)
	m.AddSource(BrowserWarningFragment, string(fragment))

	finalName := path.Base(entry)
	return stream.New(stream.KindMarkup, finalName, content, m), nil
}
