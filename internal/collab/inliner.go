package collab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/miao-yu/build-process/internal/pipeline"
)

// styleImportPattern matches whole-line CSS import statements:
//
//	@import "./base.css";
//	@import url(/src/style/fonts.css);
var styleImportPattern = regexp.MustCompile(`(?m)^[ \t]*@import\s+(?:url\(\s*)?['"]?([^'")\n]+?)['"]?\s*\)?\s*;[ \t]*$`)

// ImportInliner is a naive style inliner: it inlines whole-line @import
// statements recursively, each referenced file exactly once. Repeated
// imports of the same file collapse to the first occurrence, which is what
// keeps the combined style artifact deduplicated.
type ImportInliner struct{}

// NewImportInliner returns the reference style inliner.
func NewImportInliner() *ImportInliner {
	return &ImportInliner{}
}

// Inline implements pipeline.StyleInliner.
func (i *ImportInliner) Inline(ctx context.Context, entry string, opts pipeline.Options) (string, []pipeline.Source, error) {
	visited := make(map[string]bool)
	var sources []pipeline.Source

	content, err := i.inlineFile(ctx, entry, opts, visited, &sources)
	if err != nil {
		return "", nil, err
	}
	return content, sources, nil
}

func (i *ImportInliner) inlineFile(ctx context.Context, file string, opts pipeline.Options, visited map[string]bool, sources *[]pipeline.Source) (string, error) {
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
		return "", fmt.Errorf("read style %s: %w", abs, err)
	}
	content := string(raw)
	*sources = append(*sources, pipeline.Source{Path: abs, Content: content})

	var out strings.Builder
	last := 0
	for _, loc := range styleImportPattern.FindAllStringSubmatchIndex(content, -1) {
		ref := content[loc[2]:loc[3]]
		resolved, ok := resolveReference(ref, abs, opts)
		if !ok {
			// Remote or bare imports stay as written.
			continue
		}
		if !opts.FollowsExtension(resolved) {
			continue
		}

		inlined, err := i.inlineFile(ctx, resolved, opts, visited, sources)
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
