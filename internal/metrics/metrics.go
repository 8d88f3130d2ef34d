// Package metrics records run metrics for a pubstats report and writes them
// in the Prometheus textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "pubstats"

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace of every metric.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithConstLabels attaches fixed labels, such as a run ID, to every metric.
func WithConstLabels(labels map[string]string) Option {
	return func(r *Recorder) {
		if labels != nil {
			r.constLabels = labels
		}
	}
}

// Recorder holds the metrics of one report run. Each Recorder owns its
// registry so runs and tests never share counters.
type Recorder struct {
	namespace   string
	constLabels prometheus.Labels
	registry    *prometheus.Registry

	publicationsRead    prometheus.Counter
	publicationsDropped *prometheus.CounterVec
	publicationsKept    prometheus.Gauge
	authorsRegistered   prometheus.Gauge
	statisticApplied    *prometheus.CounterVec
	statisticFailed     *prometheus.CounterVec
	runDuration         prometheus.Gauge
}

// New creates a Recorder with a fresh registry.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	f := promauto.With(r.registry)
	r.publicationsRead = f.NewCounter(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "publications_read_total",
		Help:        "Raw publication records read from the bibliography.",
		ConstLabels: r.constLabels,
	})
	r.publicationsDropped = f.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "publications_dropped_total",
		Help:        "Publication records removed by the filter, by reason.",
		ConstLabels: r.constLabels,
	}, []string{"reason"})
	r.publicationsKept = f.NewGauge(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Name:        "publications_kept",
		Help:        "Publications that survived filtering.",
		ConstLabels: r.constLabels,
	})
	r.authorsRegistered = f.NewGauge(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Name:        "authors_registered",
		Help:        "Key authors in the registry.",
		ConstLabels: r.constLabels,
	})
	r.statisticApplied = f.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "statistic_applications_total",
		Help:        "Successful statistic applications, by statistic.",
		ConstLabels: r.constLabels,
	}, []string{"statistic"})
	r.statisticFailed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace:   r.namespace,
		Name:        "statistic_failures_total",
		Help:        "Statistic applications that panicked, by statistic.",
		ConstLabels: r.constLabels,
	}, []string{"statistic"})
	r.runDuration = f.NewGauge(prometheus.GaugeOpts{
		Namespace:   r.namespace,
		Name:        "run_duration_seconds",
		Help:        "Wall time of the last report build.",
		ConstLabels: r.constLabels,
	})
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// PublicationsRead adds n to the read counter.
func (r *Recorder) PublicationsRead(n int) { r.publicationsRead.Add(float64(n)) }

// PublicationDropped counts one dropped record.
func (r *Recorder) PublicationDropped(reason string) {
	r.publicationsDropped.WithLabelValues(reason).Inc()
}

// PublicationsKept sets the filtered publication count.
func (r *Recorder) PublicationsKept(n int) { r.publicationsKept.Set(float64(n)) }

// AuthorsRegistered sets the registry size.
func (r *Recorder) AuthorsRegistered(n int) { r.authorsRegistered.Set(float64(n)) }

// StatisticApplied implements stats.Observer.
func (r *Recorder) StatisticApplied(name string) {
	r.statisticApplied.WithLabelValues(name).Inc()
}

// StatisticFailed implements stats.Observer.
func (r *Recorder) StatisticFailed(name string) {
	r.statisticFailed.WithLabelValues(name).Inc()
}

// ObserveRun records the duration of a report build.
func (r *Recorder) ObserveRun(d time.Duration) { r.runDuration.Set(d.Seconds()) }

// WriteTextfile writes every metric to path in the node-exporter textfile
// collector format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
