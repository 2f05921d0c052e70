package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miao-yu/build-process/internal/build"
	"github.com/miao-yu/build-process/internal/collab"
	"github.com/miao-yu/build-process/internal/pipeline"
)

func fixture(t *testing.T) (string, build.Spec, *build.Orchestrator) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/app.js":     "console.log(1)\n",
		"src/main.css":   "body{}\n",
		"src/index.html": `<script src="{{js}}"></script>`,
		"src/browser_warning/browser_warning.html": "<div>w</div>",
	}
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	spec := build.Spec{
		ScriptEntry: "/src/app.js",
		StyleEntry:  "/src/main.css",
		MarkupEntry: "/src/index.html",
		RootPath:    root,
		OutputPath:  filepath.Join(root, "dist"),
	}
	orch := build.NewOrchestrator(build.Deps{
		Bundler:  collab.NewConcatBundler(),
		Inliner:  collab.NewImportInliner(),
		Replacer: collab.NewTemplateReplacer(),
		Options:  pipeline.Options{RootPath: root, ExtensionFilter: []string{".js", ".css"}},
	})
	return root, spec, orch
}

func TestRebuildOnceSkipsUnchangedInputs(t *testing.T) {
	_, spec, orch := fixture(t)
	d := New(orch, spec, Options{Debounce: 10 * time.Millisecond}, nil)
	ctx := context.Background()

	ran, err := d.RebuildOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran, "first rebuild always runs")

	ran, err = d.RebuildOnce(ctx)
	require.NoError(t, err)
	assert.False(t, ran, "unchanged inputs skip the rebuild")
}

func TestRebuildOnceRunsAfterInputChange(t *testing.T) {
	root, spec, orch := fixture(t)
	d := New(orch, spec, Options{}, nil)
	ctx := context.Background()

	_, err := d.RebuildOnce(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app.js"), []byte("console.log(2)\n"), 0o644))

	ran, err := d.RebuildOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRebuildOnceFailedBuildDoesNotPinSignature(t *testing.T) {
	root, spec, orch := fixture(t)
	d := New(orch, spec, Options{}, nil)
	ctx := context.Background()

	// Break the build by removing the script entry.
	require.NoError(t, os.Remove(filepath.Join(root, "src", "app.js")))
	ran, err := d.RebuildOnce(ctx)
	assert.True(t, ran)
	require.Error(t, err)

	// Restore; the next attempt must build, not skip.
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app.js"), []byte("console.log(1)\n"), 0o644))
	ran, err = d.RebuildOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestIgnoredPaths(t *testing.T) {
	_, spec, orch := fixture(t)
	d := New(orch, spec, Options{}, nil)

	assert.True(t, d.ignored(spec.Output()))
	assert.True(t, d.ignored(filepath.Join(spec.Output(), "app.js")))
	assert.True(t, d.ignored(filepath.Join(spec.RootPath, ".git")))
	assert.False(t, d.ignored(filepath.Join(spec.RootPath, "src", "app.js")))
}
