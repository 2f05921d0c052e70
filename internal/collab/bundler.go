// Package collab ships reference implementations of the collaborator
// contracts declared in internal/pipeline: a concatenating module bundler,
// a style import inliner, a token replacer, and a static-reference
// rewriter. They keep the CLI runnable end to end; the orchestrator depends
// only on the contracts, so richer collaborators can be swapped in by
// callers.
package collab

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/miao-yu/build-process/internal/pipeline"
)

// importPattern matches whole-line ES import statements:
//
//	import './setup.js'
//	import { a, b } from "/src/lib/util.js"
var importPattern = regexp.MustCompile(`(?m)^[ \t]*import\s+(?:[^'"\n]+\s+from\s+)?['"]([^'"\n]+)['"]\s*;?[ \t]*$`)

// ConcatBundler is a naive module bundler: it traces whole-line import
// statements from the entry, inlines each referenced file exactly once
// (depth-first, dependencies before dependents), and strips the import
// lines. Bare module specifiers (no leading "/", "./" or "../") are left
// untouched.
type ConcatBundler struct{}

// NewConcatBundler returns the reference module bundler.
func NewConcatBundler() *ConcatBundler {
	return &ConcatBundler{}
}

// Bundle implements pipeline.ModuleBundler.
func (b *ConcatBundler) Bundle(ctx context.Context, entry string, opts pipeline.Options) (string, []pipeline.Source, error) {
	visited := make(map[string]bool)
	var sources []pipeline.Source

	content, err := b.bundleFile(ctx, entry, opts, visited, &sources)
	if err != nil {
		return "", nil, err
	}
	return content, sources, nil
}

func (b *ConcatBundler) bundleFile(ctx context.Context, file string, opts pipeline.Options, visited map[string]bool, sources *[]pipeline.Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs := filepath.Clean(file)
	if visited[abs] {
		return "", nil
	}
	visited[abs] = true

	raw, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read module %s: %w", abs, err)
	}
	content := string(raw)
	*sources = append(*sources, pipeline.Source{Path: abs, Content: content})

	var out strings.Builder
	last := 0
	for _, loc := range importPattern.FindAllStringSubmatchIndex(content, -1) {
		spec := content[loc[2]:loc[3]]
		resolved, ok := resolveReference(spec, abs, opts)
		if !ok || !opts.FollowsExtension(resolved) {
			continue // bare specifier or filtered extension: keep the line
		}

		inlined, err := b.bundleFile(ctx, resolved, opts, visited, sources)
		if err != nil {
			return "", err
		}
		out.WriteString(content[last:loc[0]])
		out.WriteString(inlined)
		last = loc[1]
	}
	out.WriteString(content[last:])
	return out.String(), nil
}

// resolveReference maps a reference inside file to an on-disk path. A
// leading separator means root-relative; "./" and "../" resolve against the
// referencing file's directory. Anything else is a bare specifier the
// bundler does not follow.
func resolveReference(ref, fromFile string, opts pipeline.Options) (string, bool) {
	switch {
	case strings.HasPrefix(ref, "/"):
		return path.Join(opts.RootPath, ref), true
	case strings.HasPrefix(ref, "./"), strings.HasPrefix(ref, "../"):
		return filepath.Join(filepath.Dir(fromFile), ref), true
	default:
		return "", false
	}
}
