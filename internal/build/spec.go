// Package build composes the script, style, and markup pipelines with the
// asset relocator and performs the synchronized write of one build
// invocation.
package build

import (
	"path"

	builderrors "github.com/miao-yu/build-process/internal/errors"
)

// Spec describes one build invocation. It is owned by the caller and
// borrowed by the orchestrator for the duration of a single build; it is
// never mutated.
type Spec struct {
	ScriptEntry string
	StyleEntry  string
	MarkupEntry string
	AssetPaths  []string
	RootPath    string // absolute resolution base for root-relative references
	OutputPath  string // optional; defaults to <root>/dist
}

// Validate checks the spec before any pipeline runs.
func (s Spec) Validate() error {
	switch {
	case s.RootPath == "":
		return builderrors.New(builderrors.CategoryConfig, "root path is required")
	case !path.IsAbs(s.RootPath):
		return builderrors.Newf(builderrors.CategoryConfig, "root path %q must be absolute", s.RootPath)
	case s.ScriptEntry == "":
		return builderrors.New(builderrors.CategoryConfig, "script entry is required")
	case s.StyleEntry == "":
		return builderrors.New(builderrors.CategoryConfig, "style entry is required")
	case s.MarkupEntry == "":
		return builderrors.New(builderrors.CategoryConfig, "markup entry is required")
	}
	return nil
}

// Output returns the effective output directory.
func (s Spec) Output() string {
	if s.OutputPath != "" {
		return s.OutputPath
	}
	return path.Join(s.RootPath, "dist")
}

// Artifact is the terminal, immutable result of one build: the three
// combined resource files, the relocated assets, and the source maps, all
// written flat under the output directory.
type Artifact struct {
	OutputDir  string
	ScriptFile string
	StyleFile  string
	MarkupFile string
	AssetFiles []string
	SourceMaps []string
}
