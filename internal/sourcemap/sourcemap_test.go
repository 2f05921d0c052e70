package sourcemap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAndFinalize(t *testing.T) {
	m := Seed("src/app.js")
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, []string{"src/app.js"}, m.Sources)

	m.Finalize("app.js")
	assert.Equal(t, "app.js", m.File)
}

func TestAddSourceDeduplicates(t *testing.T) {
	m := Seed("entry.js")
	m.AddSource("lib/a.js", "aaa")
	m.AddSource("lib/a.js", "ignored")
	m.AddSource("entry.js", "entry content backfilled")

	assert.Equal(t, []string{"entry.js", "lib/a.js"}, m.Sources)
	assert.Equal(t, []string{"entry content backfilled", "aaa"}, m.SourcesContent)
}

func TestEncodeRoundTrip(t *testing.T) {
	m := Seed("entry.css")
	m.AddSource("base.css", "*{}")
	m.Finalize("main.css")

	data, err := m.Encode()
	require.NoError(t, err)

	var decoded Map
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "main.css", decoded.File)
	assert.Equal(t, []string{"entry.css", "base.css"}, decoded.Sources)
	assert.Equal(t, "", decoded.Mappings)
	assert.NotNil(t, decoded.Names)
}