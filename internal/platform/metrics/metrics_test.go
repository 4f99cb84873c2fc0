package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "/movies/{id}", 404, time.Now())
	m.ObserveRequest("GET", "/movies/{id}", 404, time.Now())
	m.ObserveRequest("POST", "/movies", 201, time.Now())

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration, "cinedex_http_request_duration_seconds"))

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, mf := range families {
		if mf.GetName() != "cinedex_http_request_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			samples += metric.GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(3), samples)
}

func TestTrackInFlight(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TrackInFlight(1)
	m.TrackInFlight(1)
	m.TrackInFlight(-1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsInFlight))
}

func TestNewDoesNotCollideAcrossRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
