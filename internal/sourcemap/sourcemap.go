// Package sourcemap models the v3 source map carried alongside each
// combined artifact. The map is seeded when a pipeline starts, accumulates
// sources as collaborators inline files, and is finalized with the output
// filename at write time.
package sourcemap

import (
	"encoding/json"
)

// Map is a minimal v3 source map. Mappings stay empty for whole-file
// concatenation; sources and sourcesContent are enough to trace an artifact
// back to its inputs.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Seed starts an incremental map at pipeline start, rooted at the entry.
func Seed(entry string) *Map {
	return &Map{
		Version:        3,
		Sources:        []string{entry},
		SourcesContent: []string{""},
		Names:          []string{},
	}
}

// AddSource records an inlined source file and its original content.
// Duplicate paths are recorded once; the first content wins.
func (m *Map) AddSource(path, content string) {
	for i, s := range m.Sources {
		if s == path {
			if m.SourcesContent[i] == "" {
				m.SourcesContent[i] = content
			}
			return
		}
	}
	m.Sources = append(m.Sources, path)
	m.SourcesContent = append(m.SourcesContent, content)
}

// Finalize stamps the output filename. Called by the writer immediately
// before the map is serialized.
func (m *Map) Finalize(finalName string) {
	m.File = finalName
}

// Encode serializes the map to JSON.
func (m *Map) Encode() ([]byte, error) {
	return json.Marshal(m)
}
