package instrument

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/loom/pkg/fiber"
	"github.com/vango-dev/loom/pkg/loom"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for slice and commit duration.
	// Default: 50µs to about 800ms, exponential.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "loom",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Prometheus is a loom.Observer that exports metrics.
//
// Metrics collected:
//   - loom_units_total: units of work performed
//   - loom_yields_total: slices that ended because the deadline ran low
//   - loom_slice_duration_seconds: time spent per work-loop slice
//   - loom_commits_total: commits by status (ok, error)
//   - loom_effects_total: committed effects by kind
//   - loom_mutations_total: backend calls made by commits
//   - loom_commit_duration_seconds: time spent per commit
//   - loom_generation: last committed generation
//
// The metrics are registered on construction, so create one Prometheus
// per registry.
type Prometheus struct {
	units          prometheus.Counter
	yields         prometheus.Counter
	sliceDuration  prometheus.Histogram
	commits        *prometheus.CounterVec
	effects        *prometheus.CounterVec
	mutations      prometheus.Counter
	commitDuration prometheus.Histogram
	generation     prometheus.Gauge
}

var _ loom.Observer = (*Prometheus)(nil)

// NewPrometheus creates and registers the metrics.
func NewPrometheus(opts ...MetricsOption) *Prometheus {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(config.Registry)

	return &Prometheus{
		units: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "units_total",
			Help:        "Total number of units of work performed",
			ConstLabels: config.ConstLabels,
		}),

		yields: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "yields_total",
			Help:        "Total number of work-loop slices that yielded to the host",
			ConstLabels: config.ConstLabels,
		}),

		sliceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slice_duration_seconds",
			Help:        "Work-loop slice duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of commits by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		effects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of committed effects by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		mutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total number of backend calls made by commits",
			ConstLabels: config.ConstLabels,
		}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "generation",
			Help:        "Last committed generation",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// OnSlice implements loom.Observer.
func (p *Prometheus) OnSlice(s loom.SliceStats) {
	p.units.Add(float64(s.Units))
	if s.Yielded {
		p.yields.Inc()
	}
	p.sliceDuration.Observe(s.Duration.Seconds())
}

// OnCommit implements loom.Observer.
func (p *Prometheus) OnCommit(r *loom.CommitReport, d time.Duration, err error) {
	p.commitDuration.Observe(d.Seconds())
	p.mutations.Add(float64(r.Mutations))
	if err != nil {
		p.commits.WithLabelValues("error").Inc()
		return
	}
	p.commits.WithLabelValues("ok").Inc()
	p.generation.Set(float64(r.Generation))

	for _, e := range []fiber.Effect{fiber.Placement, fiber.Update, fiber.Deletion} {
		if n := r.Count(e); n > 0 {
			p.effects.WithLabelValues(effectLabel(e)).Add(float64(n))
		}
	}
}

func effectLabel(e fiber.Effect) string {
	return strings.ToLower(e.String())
}
