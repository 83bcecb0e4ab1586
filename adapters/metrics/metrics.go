// Package metrics provides Prometheus instrumentation for executors.
package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/recordmap/ports"
)

// Collector holds the Prometheus metrics for statement execution.
type Collector struct {
	QueriesTotal   *prometheus.CounterVec
	QueryDuration  *prometheus.HistogramVec
	Introspections prometheus.Counter
}

// New creates a collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector on a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recordmap",
				Name:      "queries_total",
				Help:      "Total number of statements executed",
			},
			[]string{"kind", "status"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "recordmap",
				Name:      "query_duration_seconds",
				Help:      "Statement execution duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"kind"},
		),
		Introspections: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "recordmap",
				Name:      "schema_introspections_total",
				Help:      "Total number of schema discovery statements",
			},
		),
	}
}

// Executor wraps another executor and records per-statement metrics.
type Executor struct {
	next      ports.Executor
	collector *Collector
}

// Wrap instruments an executor.
func Wrap(next ports.Executor, collector *Collector) *Executor {
	return &Executor{next: next, collector: collector}
}

// Execute delegates to the wrapped executor, timing the call and counting
// the outcome by statement kind.
func (e *Executor) Execute(ctx context.Context, query string, args []any) (*ports.Result, error) {
	kind := statementKind(query)
	if kind == "describe" {
		e.collector.Introspections.Inc()
	}

	start := time.Now()
	res, err := e.next.Execute(ctx, query, args)
	e.collector.QueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	e.collector.QueriesTotal.WithLabelValues(kind, status).Inc()

	return res, err
}

func statementKind(query string) string {
	word := query
	if i := strings.IndexAny(strings.TrimSpace(query), " \t\n"); i > 0 {
		word = strings.TrimSpace(query)[:i]
	}
	switch strings.ToUpper(word) {
	case "SELECT":
		return "select"
	case "INSERT":
		return "insert"
	case "REPLACE":
		return "replace"
	case "UPDATE":
		return "update"
	case "DELETE":
		return "delete"
	case "DESCRIBE":
		return "describe"
	default:
		return "other"
	}
}
