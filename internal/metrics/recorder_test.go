package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePipelineDuration("script", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("success")
	r.AddAssetsRelocated(3)
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObservePipelineDuration("script", 120*time.Millisecond)
	r.ObserveBuildDuration(300 * time.Millisecond)
	r.IncBuildOutcome("success")
	r.AddAssetsRelocated(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["buildprocess_pipeline_duration_seconds"])
	assert.True(t, names["buildprocess_build_duration_seconds"])
	assert.True(t, names["buildprocess_build_outcomes_total"])
	assert.True(t, names["buildprocess_assets_relocated_total"])
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("failed")
}
