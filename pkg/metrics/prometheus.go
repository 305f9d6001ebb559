package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	BookingsIngested     prometheus.Counter
	TurnsRecorded        prometheus.Counter
	SuggestionsGenerated prometheus.Counter
	ErasuresCompleted    prometheus.Counter
	SuggestionTime       prometheus.Histogram
	ErrorsCount          *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_ingested_total",
			Help:      "The total number of booking events appended",
		}),
		TurnsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversation_turns_total",
			Help:      "The total number of conversation turns recorded",
		}),
		SuggestionsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_generated_total",
			Help:      "The total number of suggestion sets generated",
		}),
		ErasuresCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "erasures_completed_total",
			Help:      "The total number of completed privacy erasures",
		}),
		SuggestionTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggestion_generation_seconds",
			Help:      "Time taken to generate a suggestion set",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
