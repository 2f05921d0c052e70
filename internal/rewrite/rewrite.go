// Package rewrite implements the path rewriter: literal-substring rules
// derived from the asset list, applied identically and in the same order to
// every content stream so script, style, and markup agree on every
// reference's final name.
package rewrite

import (
	"path"
	"strings"

	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/stream"
)

// Rule rewrites every occurrence of Pattern to Replacement. Pattern is the
// asset path as given in the build spec, matched as a literal substring —
// never a glob and never a regular expression, so metacharacters in paths
// are inert.
//
// Precondition (enforced by the caller, not detected here): rules for
// distinct assets commute only if no rule's Pattern is a substring of
// another rule's Replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

// Apply returns content with every occurrence of the rule's pattern
// replaced. No other substring is altered.
func Apply(content string, r Rule) string {
	return strings.ReplaceAll(content, r.Pattern, r.Replacement)
}

// ApplyToStream rewrites a stream's textual content in place. The stream is
// exclusively owned by the relocation stage when this runs, so in-place
// mutation is safe.
func ApplyToStream(s *stream.Stream, r Rule) {
	s.Content = Apply(s.Content, r)
}

// AssetReference is one listed asset resolved for relocation.
type AssetReference struct {
	OriginalPath      string // as given in the asset list; used as rewrite pattern
	IsRootRelative    bool   // leading separator means "relative to root path"
	ResolvedFinalName string // flat output filename: basename of OriginalPath
	SourcePath        string // location the raw bytes are read from
}

// Rule derives the rewrite rule for this asset.
func (a AssetReference) Rule() Rule {
	return Rule{Pattern: a.OriginalPath, Replacement: a.ResolvedFinalName}
}

// ResolveAssets derives an AssetReference per listed path, in list order.
// A leading "/" marks the path root-relative: its source is resolved under
// rootPath. Any other path is taken as already resolvable from the process
// working context.
//
// Two distinct originals sharing a basename would silently shadow each
// other's references, corrupting one of the two assets; that case fails
// fast with a name_collision error before anything is written.
func ResolveAssets(assetPaths []string, rootPath string) ([]AssetReference, error) {
	refs := make([]AssetReference, 0, len(assetPaths))
	seen := make(map[string]string, len(assetPaths))

	for _, p := range assetPaths {
		name := path.Base(p)
		if prev, ok := seen[name]; ok && prev != p {
			return nil, builderrors.Newf(builderrors.CategoryNameCollision,
				"assets %q and %q both resolve to final name %q", prev, p, name)
		}
		seen[name] = p

		rootRelative := strings.HasPrefix(p, "/")
		source := p
		if rootRelative {
			source = path.Join(rootPath, p)
		}

		refs = append(refs, AssetReference{
			OriginalPath:      p,
			IsRootRelative:    rootRelative,
			ResolvedFinalName: name,
			SourcePath:        source,
		})
	}
	return refs, nil
}
