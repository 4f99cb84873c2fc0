package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the movie module: mutation counts and
// store call durations per operation.
type Metrics struct {
	MoviesCreated prometheus.Counter
	MoviesUpdated prometheus.Counter
	MoviesDeleted prometheus.Counter
	StoreDuration *prometheus.HistogramVec
}

// New registers the movie metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MoviesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "cinedex_movies_created_total",
			Help: "Total number of movies created",
		}),
		MoviesUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "cinedex_movies_updated_total",
			Help: "Total number of movies replaced",
		}),
		MoviesDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "cinedex_movies_deleted_total",
			Help: "Total number of movies deleted",
		}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cinedex_movie_store_duration_seconds",
			Help:    "Duration of movie store calls by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.MoviesCreated.Inc()
}

func (m *Metrics) IncrementUpdated() {
	m.MoviesUpdated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.MoviesDeleted.Inc()
}

// ObserveStore records the duration of a store call.
// Call with time.Now() taken before the call.
func (m *Metrics) ObserveStore(operation string, start time.Time) {
	m.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
