package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation records content-generation calls by outcome.
type Generation struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewGeneration registers the generation collectors on reg. A nil reg uses
// the default registerer.
func NewGeneration(reg prometheus.Registerer) *Generation {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Generation{
		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itinerary_generation_total",
				Help: "Content generation calls by outcome",
			},
			[]string{"outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "itinerary_generation_duration_seconds",
				Help:    "Content generation latency in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"outcome"},
		),
	}
}

func (g *Generation) ObserveGeneration(outcome string, d time.Duration) {
	g.calls.WithLabelValues(outcome).Inc()
	g.duration.WithLabelValues(outcome).Observe(d.Seconds())
}
