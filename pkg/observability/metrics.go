package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

const namespace = "strand"

// Metrics collects compile counters and sizes.
type Metrics struct {
	compiles *prometheus.CounterVec
	failures *prometheus.CounterVec
	length   *prometheus.HistogramVec
	duration *prometheus.HistogramVec

	gatherer prometheus.Gatherer

	mu      sync.Mutex
	started map[string]time.Time
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "designs_compiled_total",
				Help:      "Total number of designs compiled, including nested ones.",
			},
			[]string{"kind", "nested"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compile_failures_total",
				Help:      "Total number of failed compile calls by error class.",
			},
			[]string{"kind", "reason"},
		),
		length: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sequence_length_bases",
				Help:      "Length of compiled sequences.",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Duration of top-level compile calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		gatherer: reg,
		started:  make(map[string]time.Time),
	}
	for _, c := range []prometheus.Collector{m.compiles, m.failures, m.length, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompileStart: func(_ context.Context, e *domain.CompileEvent) {
			m.mu.Lock()
			m.started[e.Design] = e.Timestamp
			m.mu.Unlock()
		},
		OnCompileDone: func(_ context.Context, e *domain.CompileEvent) {
			nested := "false"
			if e.Nested {
				nested = "true"
			}
			m.compiles.WithLabelValues(string(e.Kind), nested).Inc()
			m.length.WithLabelValues(string(e.Kind)).Observe(float64(e.Length))
			if !e.Nested {
				m.observeDuration(e)
			}
		},
		OnCompileError: func(_ context.Context, e *domain.CompileEvent) {
			m.failures.WithLabelValues(string(e.Kind), Reason(e.Err)).Inc()
			m.observeDuration(e)
		},
	}
}

func (m *Metrics) observeDuration(e *domain.CompileEvent) {
	m.mu.Lock()
	start, ok := m.started[e.Design]
	delete(m.started, e.Design)
	m.mu.Unlock()
	if ok {
		m.duration.WithLabelValues(string(e.Kind)).Observe(e.Timestamp.Sub(start).Seconds())
	}
}

// Reason classifies a compile error into a low-cardinality label.
func Reason(err error) string {
	var (
		insErr   *domain.InsertionError
		asmErr   *domain.AssemblyError
		missing  *domain.MissingSequenceError
		cycle    *domain.CycleError
		conflict *domain.IdentityConflictError
	)
	switch {
	case errors.As(err, &cycle):
		return "cycle"
	case errors.As(err, &missing):
		return "missing_sequence"
	case errors.As(err, &insErr):
		return "insertion"
	case errors.As(err, &asmErr):
		return "assembly"
	case errors.As(err, &conflict):
		return "identity_conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "other"
}

// WriteText writes every gathered metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the gathered metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
