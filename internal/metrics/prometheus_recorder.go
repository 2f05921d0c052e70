package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pipelineDuration *prom.HistogramVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	assetsRelocated  prom.Counter
}

// NewPrometheusRecorder constructs and registers the build metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pipelineDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "buildprocess",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of individual resource pipelines",
			Buckets:   prom.DefBuckets,
		}, []string{"pipeline"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "buildprocess",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buildprocess",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		assetsRelocated: prom.NewCounter(prom.CounterOpts{
			Namespace: "buildprocess",
			Name:      "assets_relocated_total",
			Help:      "Number of assets copied into output directories",
		}),
	}
	reg.MustRegister(pr.pipelineDuration, pr.buildDuration, pr.buildOutcome, pr.assetsRelocated)
	return pr
}

func (p *PrometheusRecorder) ObservePipelineDuration(kind string, d time.Duration) {
	if p == nil || p.pipelineDuration == nil {
		return
	}
	p.pipelineDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddAssetsRelocated(n int) {
	if p == nil || p.assetsRelocated == nil {
		return
	}
	p.assetsRelocated.Add(float64(n))
}
