package stream

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	builderrors "github.com/miao-yu/build-process/internal/errors"
)

// Writer performs the scoped write of streams and asset copies into the
// output directory. Each sink is acquired, flushed, and closed within one
// call, on success and failure paths alike, so a crashed build never leaves
// an open handle behind. Partially written files are left as-is on error
// (no rollback) but the error is always reported.
type Writer struct {
	outputDir string
}

// NewWriter returns a writer rooted at outputDir. The directory is created
// on first write.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// OutputDir returns the directory this writer targets.
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// WriteStream writes a stream's source map and content as adjacent files.
// The map is written first so a readable content file always has its map
// beside it. Script and style artifacts get a sourceMappingURL trailer.
func (w *Writer) WriteStream(s *Stream) error {
	if err := os.MkdirAll(w.outputDir, 0o750); err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "create output directory")
	}

	if s.Map != nil {
		s.Map.Finalize(s.FinalName)
		encoded, err := s.Map.Encode()
		if err != nil {
			return builderrors.Wrap(err, builderrors.CategoryWrite, "encode source map")
		}
		if err := w.writeFile(s.MapName(), encoded); err != nil {
			return err
		}
	}

	content := s.Content
	switch s.Kind {
	case KindScript:
		content += fmt.Sprintf("\n//# sourceMappingURL=%s\n", s.MapName())
	case KindStyle:
		content += fmt.Sprintf("\n/*# sourceMappingURL=%s */\n", s.MapName())
	}

	return w.writeFile(s.FinalName, []byte(content))
}

// CopyAssets consumes the copy stream, placing every asset flat into the
// output directory. Returns the final filenames written, in op order.
func (w *Writer) CopyAssets(cs *CopyStream) ([]string, error) {
	if cs == nil || len(cs.Ops) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(w.outputDir, 0o750); err != nil {
		return nil, builderrors.Wrap(err, builderrors.CategoryWrite, "create output directory")
	}

	written := make([]string, 0, len(cs.Ops))
	for _, op := range cs.Ops {
		if err := w.copyFile(op.SourcePath, op.FinalName); err != nil {
			return written, err
		}
		written = append(written, op.FinalName)
	}
	return written, nil
}

func (w *Writer) writeFile(name string, data []byte) error {
	dst := filepath.Join(w.outputDir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "open output sink").WithContext("path", dst)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "write output").WithContext("path", dst)
	}
	if err := f.Sync(); err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "flush output").WithContext("path", dst)
	}
	return nil
}

func (w *Writer) copyFile(src, finalName string) error {
	in, err := os.Open(src)
	if err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "open asset source").WithContext("path", src)
	}
	defer in.Close()

	dst := filepath.Join(w.outputDir, finalName)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "open asset sink").WithContext("path", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "copy asset").WithContext("path", dst)
	}
	if err := out.Sync(); err != nil {
		return builderrors.Wrap(err, builderrors.CategoryWrite, "flush asset").WithContext("path", dst)
	}
	return nil
}
