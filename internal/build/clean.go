package build

import (
	"log/slog"
	"os"

	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/logfields"
)

// Clean removes the output directory and everything in it, so a following
// build reconstructs the output from scratch with no leftover files.
// A missing directory is not an error.
func Clean(outputDir string) error {
	if outputDir == "" {
		return builderrors.New(builderrors.CategoryConfig, "output directory is required")
	}
	if err := os.RemoveAll(outputDir); err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "clean output directory").
			WithContext("path", outputDir)
	}
	slog.Info("cleaned output directory", logfields.Path(outputDir))
	return nil
}
