// Package stream defines the in-flight representation of one resource type
// (Stream) plus the binary-safe asset copy stream (CopyStream) and the
// output writer.
//
// Ownership discipline: a Stream is exclusively owned by the pipeline stage
// currently transforming it. Ownership transfers stage to stage in sequence;
// a stream is never transformed concurrently by two stages. Stages mutate
// Content in place — the single-writer rule makes that safe.
package stream

import (
	"github.com/miao-yu/build-process/internal/sourcemap"
)

// Kind identifies the resource type a stream carries.
type Kind string

const (
	KindScript Kind = "script"
	KindStyle  Kind = "style"
	KindMarkup Kind = "markup"
)

// Stream is one resource type in flight through the pipeline: a live,
// still-mutable transformation target, not a file.
type Stream struct {
	Kind      Kind
	FinalName string // output basename, derived from the entry path
	Content   string
	Map       *sourcemap.Map
}

// New creates a stream owned by the calling stage.
func New(kind Kind, finalName, content string, m *sourcemap.Map) *Stream {
	return &Stream{Kind: kind, FinalName: finalName, Content: content, Map: m}
}

// MapName returns the adjacent source map filename for this stream.
func (s *Stream) MapName() string {
	return s.FinalName + ".map"
}

// CopyOp is one raw asset copy: source bytes are read unchanged and written
// flat into the output directory under FinalName.
type CopyOp struct {
	SourcePath string
	FinalName  string
}

// CopyStream is the ordered set of asset copy operations produced by the
// relocator. Asset bytes are never treated as rewritable text.
type CopyStream struct {
	Ops []CopyOp
}
