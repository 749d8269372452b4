// Package metrics holds the business counters exported on /metrics.
//
// A nil *Metrics is valid and records nothing, so components can take one
// through an option without guarding every call.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "filevault"

// Metrics groups the domain counters.
type Metrics struct {
	filesCreated        *prometheus.CounterVec
	variantsGenerated   *prometheus.CounterVec
	jobsDeadLettered    *prometheus.CounterVec
	thumbnailEnqueueErr prometheus.Counter
}

// New registers the counters on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		filesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_created_total",
			Help:      "Records created, by kind.",
		}, []string{"kind"}),
		variantsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_variants_generated_total",
			Help:      "Thumbnail variants written, by width.",
		}, []string{"width"}),
		jobsDeadLettered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_dead_lettered_total",
			Help:      "Background jobs that exhausted their attempts, by task.",
		}, []string{"task"}),
		thumbnailEnqueueErr: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_enqueue_failures_total",
			Help:      "Image records whose thumbnail job could not be enqueued.",
		}),
	}
}

// FileCreated counts a persisted record of the given kind.
func (m *Metrics) FileCreated(kind string) {
	if m == nil {
		return
	}
	m.filesCreated.WithLabelValues(kind).Inc()
}

// VariantGenerated counts one stored thumbnail variant.
func (m *Metrics) VariantGenerated(width int) {
	if m == nil {
		return
	}
	m.variantsGenerated.WithLabelValues(strconv.Itoa(width)).Inc()
}

// JobDeadLettered counts a job that will not be retried again.
func (m *Metrics) JobDeadLettered(task string) {
	if m == nil {
		return
	}
	m.jobsDeadLettered.WithLabelValues(task).Inc()
}

// ThumbnailEnqueueFailed counts a failed thumbnail enqueue.
func (m *Metrics) ThumbnailEnqueueFailed() {
	if m == nil {
		return
	}
	m.thumbnailEnqueueErr.Inc()
}
