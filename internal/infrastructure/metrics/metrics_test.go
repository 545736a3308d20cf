package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveClassification("text", "left")
	m.ObserveClassification("text", "left")
	m.ObserveClassification("url", "right")
	m.ObserveError(ErrorKindInference)
	m.ObserveInference(30 * time.Millisecond)
	m.ObserveResolve(200 * time.Millisecond)
	m.ObserveCache("hit")
	m.ObserveHTTP("POST", "/api/v1/classify", 200, 40*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Classifications.WithLabelValues("text", "left")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Classifications.WithLabelValues("url", "right")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationErrors.WithLabelValues("inference")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/classify", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "newsmind_inference_duration_seconds")
	assert.Contains(t, names, "newsmind_resolver_duration_seconds")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveClassification("text", "center")
		m.ObserveError(ErrorKindNoText)
		m.ObserveInference(time.Second)
		m.ObserveResolve(time.Second)
		m.ObserveCache("miss")
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}
