package collab

import (
	"regexp"
	"sort"
	"strings"

	"github.com/miao-yu/build-process/internal/pipeline"
)

// TemplateReplacer substitutes {{ name }} markers in markup content. Marker
// syntax allows optional interior whitespace. A token without a marker in
// the content is reported as skipped and the markup is left untouched for
// that token.
type TemplateReplacer struct{}

// NewTemplateReplacer returns the reference token replacer.
func NewTemplateReplacer() *TemplateReplacer {
	return &TemplateReplacer{}
}

// Replace implements pipeline.TokenReplacer. Tokens are processed in sorted
// name order so outcomes are deterministic.
func (r *TemplateReplacer) Replace(content string, tokens map[string]string) (string, []pipeline.Substitution) {
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	subs := make([]pipeline.Substitution, 0, len(names))
	for _, name := range names {
		marker := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\s*\}\}`)
		if marker.MatchString(content) {
			content = marker.ReplaceAllLiteralString(content, tokens[name])
			subs = append(subs, pipeline.Substitution{Token: name, Outcome: pipeline.OutcomeSubstituted})
		} else {
			subs = append(subs, pipeline.Substitution{Token: name, Outcome: pipeline.OutcomeSkipped})
		}
	}
	return content, subs
}

// PrefixRewriter is the reference static-reference post-pass: a literal
// prefix rewrite applied uniformly to the textual streams. The default
// configuration strips the "static://" scheme used in sources to mark
// references that become plain relative paths in the flat output layout.
type PrefixRewriter struct {
	From string
	To   string
}

// NewPrefixRewriter builds the post-pass rewriter.
func NewPrefixRewriter(from, to string) *PrefixRewriter {
	return &PrefixRewriter{From: from, To: to}
}

// Rewrite implements pipeline.StaticRewriter.
func (p *PrefixRewriter) Rewrite(content string) string {
	if p == nil || p.From == "" {
		return content
	}
	return strings.ReplaceAll(content, p.From, p.To)
}
