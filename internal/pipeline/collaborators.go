// Package pipeline drives the per-resource transformation pipelines. The
// heavy lifting — module graph resolution, style import inlining, token
// substitution mechanics — is delegated to collaborators; this package owns
// the contracts, entry resolution, source map seeding, and error
// classification.
package pipeline

import (
	"context"
	"os"
	"path"
	"strings"

	builderrors "github.com/miao-yu/build-process/internal/errors"
)

// Options is the explicit collaborator configuration passed into each
// pipeline constructor (replacing call-site-baked plugin options).
type Options struct {
	// RootPath is the absolute base directory against which root-relative
	// references are resolved.
	RootPath string
	// ExtensionFilter lists the file extensions collaborators will follow
	// when tracing same-type dependencies (e.g. [".js", ".mjs"]).
	ExtensionFilter []string
}

// FollowsExtension reports whether a referenced path passes the filter.
// An empty filter follows everything.
func (o Options) FollowsExtension(p string) bool {
	if len(o.ExtensionFilter) == 0 {
		return true
	}
	ext := path.Ext(p)
	for _, e := range o.ExtensionFilter {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Source is one input file a collaborator consumed while producing an
// artifact, recorded into the stream's source map.
type Source struct {
	Path    string
	Content string
}

// ModuleBundler combines a script entry and its traced dependency graph
// into one artifact.
type ModuleBundler interface {
	Bundle(ctx context.Context, entry string, opts Options) (content string, sources []Source, err error)
}

// StyleInliner inlines and deduplicates style imports into one artifact.
type StyleInliner interface {
	Inline(ctx context.Context, entry string, opts Options) (content string, sources []Source, err error)
}

// SubstitutionOutcome tags what happened to one named token.
type SubstitutionOutcome string

const (
	OutcomeSubstituted SubstitutionOutcome = "substituted"
	OutcomeSkipped     SubstitutionOutcome = "skipped"
)

// Substitution reports the outcome for one token passed to a TokenReplacer.
type Substitution struct {
	Token   string
	Outcome SubstitutionOutcome
}

// TokenReplacer substitutes named placeholder tokens inside markup content.
// A token absent from the content is a Skipped outcome, never an error.
type TokenReplacer interface {
	Replace(content string, tokens map[string]string) (string, []Substitution)
}

// StaticRewriter is the uniform static-reference post-pass applied
// identically to the script, style, and markup streams (never to the asset
// copy stream).
type StaticRewriter interface {
	Rewrite(content string) string
}

// resolveEntry maps an entry path to its on-disk location: root-relative
// entries (leading separator) resolve under the root path, anything else is
// taken as given. Returns a resolution error if the file does not exist.
func resolveEntry(entry, rootPath string) (string, error) {
	p := entry
	if strings.HasPrefix(entry, "/") {
		p = path.Join(rootPath, entry)
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", builderrors.Wrap(err, builderrors.CategoryResolution, "entry not found").
			WithContext("entry", entry).WithContext("resolved", p)
	}
	if info.IsDir() {
		return "", builderrors.Newf(builderrors.CategoryResolution, "entry %q is a directory", entry)
	}
	return p, nil
}
