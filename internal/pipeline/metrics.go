package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks pipeline outcomes for the /metrics endpoint.
type Metrics struct {
	WorkflowsTotal       *prometheus.CounterVec
	JobsTotal            *prometheus.CounterVec
	TranscriptionSeconds prometheus.Histogram
}

// NewMetrics registers the pipeline collectors on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WorkflowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podcastogist",
			Name:      "workflows_total",
			Help:      "Workflow executions by workflow and outcome.",
		}, []string{"workflow", "outcome"}),
		JobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podcastogist",
			Name:      "generation_jobs_total",
			Help:      "Generation job settlements by job and outcome.",
		}, []string{"job", "outcome"}),
		TranscriptionSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "podcastogist",
			Name:      "transcription_duration_seconds",
			Help:      "Wall time from submission to normalized transcript.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
	}
}

func (m *Metrics) workflow(name, outcome string) {
	if m == nil {
		return
	}
	m.WorkflowsTotal.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) job(job, outcome string) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(job, outcome).Inc()
}

func (m *Metrics) transcription(seconds float64) {
	if m == nil {
		return
	}
	m.TranscriptionSeconds.Observe(seconds)
}
