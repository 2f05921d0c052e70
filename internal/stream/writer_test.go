package stream

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miao-yu/build-process/internal/sourcemap"
)

func TestWriteStreamContentAndMap(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	m := sourcemap.Seed("src/app.js")
	m.AddSource("src/util.js", "export const x = 1\n")
	s := New(KindScript, "app.js", "const x = 1\n", m)

	require.NoError(t, w.WriteStream(s))

	content, err := os.ReadFile(filepath.Join(dir, "app.js"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "const x = 1")
	assert.Contains(t, string(content), "//# sourceMappingURL=app.js.map")

	raw, err := os.ReadFile(filepath.Join(dir, "app.js.map"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "app.js", decoded["file"])
	assert.ElementsMatch(t, []any{"src/app.js", "src/util.js"}, decoded["sources"])
}

func TestWriteStreamStyleTrailer(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	s := New(KindStyle, "main.css", "body{margin:0}\n", sourcemap.Seed("src/main.css"))
	require.NoError(t, w.WriteStream(s))

	content, err := os.ReadFile(filepath.Join(dir, "main.css"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "/*# sourceMappingURL=main.css.map */")
}

func TestWriteStreamMarkupHasNoTrailer(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	s := New(KindMarkup, "index.html", "<html></html>\n", sourcemap.Seed("src/index.html"))
	require.NoError(t, w.WriteStream(s))

	content, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "sourceMappingURL")
}

func TestCopyAssetsFlat(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	logo := filepath.Join(srcDir, "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	w := NewWriter(outDir)
	written, err := w.CopyAssets(&CopyStream{Ops: []CopyOp{{SourcePath: logo, FinalName: "logo.png"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"logo.png"}, written)

	data, err := os.ReadFile(filepath.Join(outDir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
}

func TestCopyAssetsMissingSource(t *testing.T) {
	w := NewWriter(t.TempDir())
	_, err := w.CopyAssets(&CopyStream{Ops: []CopyOp{{SourcePath: "/nope/missing.png", FinalName: "missing.png"}}})
	assert.Error(t, err)
}

func TestCopyAssetsEmpty(t *testing.T) {
	w := NewWriter(t.TempDir())
	written, err := w.CopyAssets(&CopyStream{})
	assert.NoError(t, err)
	assert.Empty(t, written)
}
