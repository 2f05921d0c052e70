package collab

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miao-yu/build-process/internal/pipeline"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConcatBundlerInlinesImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.js"), "import './util.js'\nmain()\n")
	writeFile(t, filepath.Join(root, "src", "util.js"), "function util() {}\n")

	b := NewConcatBundler()
	content, sources, err := b.Bundle(context.Background(), filepath.Join(root, "src", "app.js"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".js"}})
	require.NoError(t, err)
	assert.Equal(t, "function util() {}\n\nmain()\n", content)
	assert.Len(t, sources, 2)
}

func TestConcatBundlerRootRelativeImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.js"), "import { x } from \"/lib/x.js\"\nuse(x)\n")
	writeFile(t, filepath.Join(root, "lib", "x.js"), "export const x = 1\n")

	b := NewConcatBundler()
	content, _, err := b.Bundle(context.Background(), filepath.Join(root, "src", "app.js"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".js"}})
	require.NoError(t, err)
	assert.Contains(t, content, "export const x = 1")
	assert.NotContains(t, content, "import { x }")
}

func TestConcatBundlerDeduplicatesAndBreaksCycles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "import './b.js'\nimport './b.js'\na()\n")
	writeFile(t, filepath.Join(root, "b.js"), "import './a.js'\nb()\n")

	b := NewConcatBundler()
	content, sources, err := b.Bundle(context.Background(), filepath.Join(root, "a.js"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".js"}})
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(content, "b()"))
	assert.Len(t, sources, 2)
}

func TestConcatBundlerKeepsBareSpecifiers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.js"), "import 'left-pad'\nmain()\n")

	b := NewConcatBundler()
	content, _, err := b.Bundle(context.Background(), filepath.Join(root, "app.js"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".js"}})
	require.NoError(t, err)
	assert.Contains(t, content, "import 'left-pad'")
}

func TestConcatBundlerMissingImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.js"), "import './gone.js'\n")

	b := NewConcatBundler()
	_, _, err := b.Bundle(context.Background(), filepath.Join(root, "app.js"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".js"}})
	assert.Error(t, err)
}

func TestImportInlinerInlinesAndDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.css"), "@import \"./base.css\";\n@import \"./theme.css\";\nbody{}\n")
	writeFile(t, filepath.Join(root, "base.css"), "*{box-sizing:border-box}\n")
	writeFile(t, filepath.Join(root, "theme.css"), "@import \"./base.css\";\nh1{color:red}\n")

	i := NewImportInliner()
	content, sources, err := i.Inline(context.Background(), filepath.Join(root, "main.css"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".css"}})
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(content, "box-sizing"))
	assert.Contains(t, content, "h1{color:red}")
	assert.Contains(t, content, "body{}")
	assert.NotContains(t, content, "@import")
	assert.Len(t, sources, 3)
}

func TestImportInlinerUrlForm(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.css"), "@import url(/fonts.css);\nbody{}\n")
	writeFile(t, filepath.Join(root, "fonts.css"), "@font-face{}\n")

	i := NewImportInliner()
	content, _, err := i.Inline(context.Background(), filepath.Join(root, "main.css"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".css"}})
	require.NoError(t, err)
	assert.Contains(t, content, "@font-face{}")
}

func TestImportInlinerKeepsRemoteImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.css"), "@import \"https://cdn.example/x.css\";\nbody{}\n")

	i := NewImportInliner()
	content, _, err := i.Inline(context.Background(), filepath.Join(root, "main.css"),
		pipeline.Options{RootPath: root, ExtensionFilter: []string{".css"}})
	require.NoError(t, err)
	assert.Contains(t, content, "@import \"https://cdn.example/x.css\";")
}

func TestTemplateReplacer(t *testing.T) {
	r := NewTemplateReplacer()
	content, subs := r.Replace(`<script src="{{ js }}"></script><p>{{missing}}</p>`, map[string]string{
		"js":      "app.js",
		"css":     "main.css",
		"missing": "",
	})
	assert.Contains(t, content, `src="app.js"`)

	outcomes := map[string]pipeline.SubstitutionOutcome{}
	for _, s := range subs {
		outcomes[s.Token] = s.Outcome
	}
	assert.Equal(t, pipeline.OutcomeSubstituted, outcomes["js"])
	assert.Equal(t, pipeline.OutcomeSkipped, outcomes["css"])
	assert.Equal(t, pipeline.OutcomeSubstituted, outcomes["missing"])
}

func TestTemplateReplacerWhitespaceVariants(t *testing.T) {
	r := NewTemplateReplacer()
	content, _ := r.Replace("{{js}} {{ js }} {{  js  }}", map[string]string{"js": "a.js"})
	assert.Equal(t, "a.js a.js a.js", content)
}

func TestTemplateReplacerHyphenatedToken(t *testing.T) {
	r := NewTemplateReplacer()
	content, subs := r.Replace("{{ browser-warning }}", map[string]string{"browser-warning": "<div>w</div>"})
	assert.Equal(t, "<div>w</div>", content)
	require.Len(t, subs, 1)
	assert.Equal(t, pipeline.OutcomeSubstituted, subs[0].Outcome)
}

func TestPrefixRewriter(t *testing.T) {
	p := NewPrefixRewriter("static://", "")
	assert.Equal(t, `<img src="logo.png">`, p.Rewrite(`<img src="static://logo.png">`))
	assert.Equal(t, "untouched", p.Rewrite("untouched"))
}

func countOccurrences(s, sub string) int {
	return strings.Count(s, sub)
}
