package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureStableForUnchangedInputs(t *testing.T) {
	root := fixtureProject(t)
	spec := fixtureSpec(root)

	first, err := Signature(spec)
	require.NoError(t, err)
	second, err := Signature(spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestSignatureChangesWhenInputChanges(t *testing.T) {
	root := fixtureProject(t)
	spec := fixtureSpec(root)

	before, err := Signature(spec)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "lib", "util.js"),
		[]byte("function util() { return 1 }\n"), 0o644))

	after, err := Signature(spec)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestSignatureIgnoresOutputDirectory(t *testing.T) {
	root := fixtureProject(t)
	spec := fixtureSpec(root)

	before, err := Signature(spec)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "app.js"), []byte("built"), 0o644))

	after, err := Signature(spec)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSignatureAssetOrderDoesNotMatter(t *testing.T) {
	root := fixtureProject(t)

	a := fixtureSpec(root)
	a.AssetPaths = []string{"/images/logo.png", "/images/icon.png"}
	b := fixtureSpec(root)
	b.AssetPaths = []string{"/images/icon.png", "/images/logo.png"}

	sigA, err := Signature(a)
	require.NoError(t, err)
	sigB, err := Signature(b)
	require.NoError(t, err)
	assert.Equal(t, sigA, sigB)
}
