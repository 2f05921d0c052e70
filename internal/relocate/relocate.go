// Package relocate implements the asset relocator: it resolves every listed
// asset to a flat final filename, builds the binary-safe copy stream, and
// applies the shared rewrite rules identically to the script, style, and
// markup streams so all three agree on every reference's final name.
package relocate

import (
	"log/slog"
	"os"

	builderrors "github.com/miao-yu/build-process/internal/errors"
	"github.com/miao-yu/build-process/internal/logfields"
	"github.com/miao-yu/build-process/internal/rewrite"
	"github.com/miao-yu/build-process/internal/stream"
)

// Result carries the copy stream plus the three rewritten content streams.
// The content streams are the same values passed in, mutated under the
// relocator's exclusive ownership; they are returned to make the ownership
// transfer back to the caller explicit.
type Result struct {
	Copy   *stream.CopyStream
	Script *stream.Stream
	Style  *stream.Stream
	Markup *stream.Stream
}

// Relocate resolves assetPaths, verifies their sources exist, builds the
// copy stream, and rewrites every textual occurrence of each original asset
// path in all three streams to its flat basename, in asset-list order.
//
// The relocator must only run once each upstream pipeline has finished
// producing its stream: it takes exclusive ownership of all three for the
// duration of the call.
//
// Rule-order caveat: rules for distinct assets commute only under the
// non-overlap precondition documented on rewrite.Rule; the relocator does
// not detect violations.
func Relocate(assetPaths []string, script, style, markup *stream.Stream, rootPath string) (*Result, error) {
	refs, err := rewrite.ResolveAssets(assetPaths, rootPath)
	if err != nil {
		return nil, err
	}

	copyStream := &stream.CopyStream{Ops: make([]stream.CopyOp, 0, len(refs))}
	for _, ref := range refs {
		info, err := os.Stat(ref.SourcePath)
		if err != nil {
			return nil, builderrors.Wrap(err, builderrors.CategoryResolution, "asset not found").
				WithContext("asset", ref.OriginalPath).WithContext("resolved", ref.SourcePath)
		}
		if info.IsDir() {
			return nil, builderrors.Newf(builderrors.CategoryResolution, "asset %q is a directory", ref.OriginalPath)
		}
		copyStream.Ops = append(copyStream.Ops, stream.CopyOp{
			SourcePath: ref.SourcePath,
			FinalName:  ref.ResolvedFinalName,
		})
	}

	for _, ref := range refs {
		rule := ref.Rule()
		rewrite.ApplyToStream(script, rule)
		rewrite.ApplyToStream(style, rule)
		rewrite.ApplyToStream(markup, rule)
		slog.Debug("asset reference rewritten across streams",
			logfields.Asset(ref.OriginalPath),
			slog.String("final_name", ref.ResolvedFinalName))
	}

	return &Result{Copy: copyStream, Script: script, Style: style, Markup: markup}, nil
}
