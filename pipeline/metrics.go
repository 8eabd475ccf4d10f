package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sae3023/ProtoData/event"
	"github.com/sae3023/ProtoData/sourceset"
)

// Metrics is optional Prometheus instrumentation for an Orchestrator run.
// A nil *Metrics (the Orchestrator's default) disables all of it; every
// method here is safe to call on a nil receiver, the way the rest of the
// ecosystem's optional-metrics packages are typically written.
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	phaseDuration  *prometheus.HistogramVec
	filesWritten   prometheus.Counter
	filesDeleted   prometheus.Counter
}

// NewMetrics builds a Metrics instance and registers its collectors with
// reg. Pass prometheus.DefaultRegisterer for the global registry, or a
// fresh prometheus.NewRegistry() in tests to avoid collisions between
// runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "protodata",
			Name:      "events_total",
			Help:      "Number of compiler events dispatched to the projection substrate, by kind.",
		}, []string{"kind"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "protodata",
			Name:      "phase_duration_seconds",
			Help:      "Wall-clock duration of each pipeline phase.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "protodata",
			Name:      "files_written_total",
			Help:      "Number of source files written during flush.",
		}),
		filesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "protodata",
			Name:      "files_deleted_total",
			Help:      "Number of source files removed during flush.",
		}),
	}
	reg.MustRegister(m.eventsTotal, m.phaseDuration, m.filesWritten, m.filesDeleted)
	return m
}

// orDisabled returns m, or a disabled Metrics if m is nil, so call sites
// never need a nil check of their own.
func (m *Metrics) orDisabled() *Metrics {
	if m == nil {
		return &Metrics{}
	}
	return m
}

func (m *Metrics) phase(name string) func() {
	if m == nil || m.phaseDuration == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.phaseDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) event(ev event.Event) {
	if m == nil || m.eventsTotal == nil {
		return
	}
	m.eventsTotal.WithLabelValues(ev.Kind().String()).Inc()
}

func (m *Metrics) recordFlush(set *sourceset.SourceSet) {
	if m == nil || m.filesWritten == nil {
		return
	}
	m.filesWritten.Add(float64(set.ChangedCount()))
	m.filesDeleted.Add(float64(set.DeletedCount()))
}
