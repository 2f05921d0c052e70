// Package logfields defines canonical log field name constants to avoid
// drift across packages.
package logfields

import "log/slog"

const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyStream     = "stream"
	KeyPath       = "path"
	KeyAsset      = "asset"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Stream(kind string) slog.Attr    { return slog.String(KeyStream, kind) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Asset(a string) slog.Attr        { return slog.String(KeyAsset, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
