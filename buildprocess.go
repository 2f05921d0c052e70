// Package buildprocess bundles a front-end application's script, style, and
// markup entry points into one self-consistent output directory: each
// resource type becomes a single artifact with an adjacent source map,
// auxiliary assets are relocated flat into the output, and every textual
// cross-reference is rewritten so names resolve correctly post-relocation.
//
// The package-level functions wire the reference collaborators from
// internal/collab. Callers needing custom bundling, inlining, or token
// substitution compose build.Orchestrator directly via the Deps it accepts.
package buildprocess

import (
	"context"

	"github.com/miao-yu/build-process/internal/build"
	"github.com/miao-yu/build-process/internal/collab"
	"github.com/miao-yu/build-process/internal/pipeline"
	"github.com/miao-yu/build-process/internal/relocate"
	"github.com/miao-yu/build-process/internal/stream"
)

// Re-exported types so callers can name results of the package-level API.
type (
	// Spec describes one build invocation.
	Spec = build.Spec
	// Artifact is the terminal result of one build.
	Artifact = build.Artifact
	// Options configures entry resolution for the collaborators.
	Options = pipeline.Options
	// Stream is one resource type in flight through the pipeline.
	Stream = stream.Stream
	// CopyStream is the binary-safe asset copy stream.
	CopyStream = stream.CopyStream
)

// BundleScript produces the combined script artifact stream for an entry
// point, using the reference module bundler.
func BundleScript(ctx context.Context, entry string, opts Options) (*Stream, error) {
	return pipeline.NewScriptPipeline(collab.NewConcatBundler(), opts).Bundle(ctx, entry)
}

// BundleStyle produces the combined, deduplicated style artifact stream for
// an entry point, using the reference import inliner.
func BundleStyle(ctx context.Context, entry string, opts Options) (*Stream, error) {
	return pipeline.NewStylePipeline(collab.NewImportInliner(), opts).Bundle(ctx, entry)
}

// BundleMarkup produces the final markup artifact stream by substituting
// the js, css, and browser-warning placeholders into the entry markup.
func BundleMarkup(ctx context.Context, entry, scriptFinalName, styleFinalName string, opts Options) (*Stream, error) {
	return pipeline.NewMarkupPipeline(collab.NewTemplateReplacer(), opts).Bundle(ctx, entry, scriptFinalName, styleFinalName)
}

// RelocateAssets resolves the listed assets, builds the copy stream, and
// rewrites every reference across the three content streams.
func RelocateAssets(assetPaths []string, markup, script, style *Stream, rootPath string) (*CopyStream, *Stream, *Stream, *Stream, error) {
	res, err := relocate.Relocate(assetPaths, script, style, markup, rootPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return res.Copy, res.Markup, res.Script, res.Style, nil
}

// Build runs one full build with the reference collaborators and writes the
// artifacts under the spec's output path.
func Build(ctx context.Context, spec Spec) (*Artifact, error) {
	orch := build.NewOrchestrator(build.Deps{
		Bundler:  collab.NewConcatBundler(),
		Inliner:  collab.NewImportInliner(),
		Replacer: collab.NewTemplateReplacer(),
		Options:  Options{RootPath: spec.RootPath},
	})
	return orch.Build(ctx, spec)
}

// CleanBuild removes the output directory and everything in it.
func CleanBuild(outputDir string) error {
	return build.Clean(outputDir)
}
