// Package metrics provides observability hooks for builds. The Recorder
// interface decouples the orchestrator from any metrics backend; the
// Prometheus implementation is wired by the watch daemon.
package metrics

import "time"

// Recorder defines observability hooks for build and pipeline metrics.
// All methods must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObservePipelineDuration(kind string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	AddAssetsRelocated(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePipelineDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)            {}
func (NoopRecorder) IncBuildOutcome(string)                        {}
func (NoopRecorder) AddAssetsRelocated(int)                        {}
