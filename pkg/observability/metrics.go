package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	generations      *prometheus.CounterVec
	generateDuration prometheus.Histogram
	signatureLength  prometheus.Histogram
	draws            *prometheus.CounterVec
	drawDuration     prometheus.Histogram
	segments         prometheus.Counter
	leaves           prometheus.Counter
}

// NewMetrics registers the ltree collectors on a fresh registry, together
// with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ltree_generations_total",
				Help: "Total number of signature generations by cache outcome",
			},
			[]string{"cache"},
		),
		generateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ltree_generate_duration_seconds",
			Help:    "Duration of signature generation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		signatureLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ltree_signature_length",
			Help:    "Length of generated signatures in symbols",
			Buckets: prometheus.ExponentialBuckets(10, 4, 10),
		}),
		draws: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ltree_draws_total",
				Help: "Total number of draws by result",
			},
			[]string{"result"},
		),
		drawDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ltree_draw_duration_seconds",
			Help:    "Duration of signature interpretation",
			Buckets: prometheus.DefBuckets,
		}),
		segments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ltree_segments_drawn_total",
			Help: "Total number of branch segments drawn",
		}),
		leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ltree_leaves_drawn_total",
			Help: "Total number of leaves drawn",
		}),
	}
	reg.MustRegister(
		m.generations, m.generateDuration, m.signatureLength,
		m.draws, m.drawDuration, m.segments, m.leaves,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			outcome := "miss"
			if e.CacheHit {
				outcome = "hit"
			} else {
				m.generateDuration.Observe(e.Duration.Seconds())
				m.signatureLength.Observe(float64(e.Length))
			}
			m.generations.WithLabelValues(outcome).Inc()
		},
		OnDraw: func(_ context.Context, e *domain.DrawEvent) {
			if e.Err != nil {
				m.draws.WithLabelValues("error").Inc()
				return
			}
			m.draws.WithLabelValues("ok").Inc()
			m.drawDuration.Observe(e.Duration.Seconds())
			m.segments.Add(float64(e.Stats.Segments))
			m.leaves.Add(float64(e.Stats.Leaves))
		},
	}
}
