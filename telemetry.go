package routeplanner

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/pdrpinto/routeplanner")

// Search outcome label values.
const (
	OutcomeFound     = "found"
	OutcomeNoPath    = "no_path"
	OutcomeLimit     = "limit"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Metrics holds the Prometheus collectors for searches.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	NodesExpanded  prometheus.Histogram
	PathDistance   prometheus.Histogram
}

// NewMetrics creates the search collectors and registers them on registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "routeplanner_searches_total",
				Help: "Total number of route searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "routeplanner_search_duration_seconds",
			Help:    "Route search duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),
		NodesExpanded: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "routeplanner_nodes_expanded",
			Help:    "Number of nodes expanded per search",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		}),
		PathDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "routeplanner_path_distance_meters",
			Help:    "Length of found routes in metres",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		}),
	}
}

func (m *Metrics) observe(found bool, expanded int, distance float64, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome(err)).Inc()
	m.SearchDuration.Observe(elapsed.Seconds())
	m.NodesExpanded.Observe(float64(expanded))
	if found {
		m.PathDistance.Observe(distance)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeFound
	case errors.Is(err, ErrNoPath):
		return OutcomeNoPath
	case errors.Is(err, ErrExpansionLimit):
		return OutcomeLimit
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

func endSpan(span trace.Span, found bool, expanded int, distance float64, err error) {
	span.SetAttributes(
		attribute.Bool("search.found", found),
		attribute.Int("search.expanded", expanded),
		attribute.Float64("search.distance_m", distance),
		attribute.String("search.outcome", outcome(err)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
