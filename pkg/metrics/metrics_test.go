package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics("medtour", prometheus.NewRegistry())

	m.ObserveRequest("GET", "/api/v1/owners/{owner_type}", "200", 20*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/owners/{owner_type}", "200", 30*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/owners/{owner_type}", "404", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/v1/owners/{owner_type}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/v1/owners/{owner_type}", "404")))
}

func TestMetrics_ObserveUpload(t *testing.T) {
	m := NewMetrics("medtour", prometheus.NewRegistry())

	m.ObserveUpload("doctor", 100)
	m.ObserveUpload("doctor", 50)

	assert.Equal(t, 150.0, testutil.ToFloat64(m.UploadedBytes.WithLabelValues("doctor")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("medtour", prometheus.NewRegistry())
		NewMetrics("medtour", prometheus.NewRegistry())
	})
}
