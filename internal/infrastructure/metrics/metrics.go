// Package metrics exports Prometheus instrumentation for the bias classifier.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsmind"

// Error kinds recorded by ClassificationErrors
const (
	ErrorKindTokenization = "tokenization"
	ErrorKindInference    = "inference"
	ErrorKindResolution   = "resolution"
	ErrorKindNoText       = "no_text"
)

// Metrics holds all classifier Prometheus metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Classifications      *prometheus.CounterVec
	ClassificationErrors *prometheus.CounterVec
	InferenceDuration    prometheus.Histogram
	ResolverDuration     prometheus.Histogram
	CacheRequests        *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// New registers the metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Total texts classified, by input source and predicted category",
		}, []string{"source", "category"}),

		ClassificationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_errors_total",
			Help:      "Total classification requests that did not produce a label, by kind",
		}, []string{"kind"}),

		InferenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Time spent in the model forward pass",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),

		ResolverDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolver_duration_seconds",
			Help:      "Time spent downloading and extracting articles",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Label cache lookups, by result (hit, miss, error)",
		}, []string{"result"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveClassification records a produced label
func (m *Metrics) ObserveClassification(source, category string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(source, category).Inc()
}

// ObserveError records a request that ended without a label
func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.ClassificationErrors.WithLabelValues(kind).Inc()
}

// ObserveInference records forward pass latency
func (m *Metrics) ObserveInference(d time.Duration) {
	if m == nil {
		return
	}
	m.InferenceDuration.Observe(d.Seconds())
}

// ObserveResolve records article resolution latency
func (m *Metrics) ObserveResolve(d time.Duration) {
	if m == nil {
		return
	}
	m.ResolverDuration.Observe(d.Seconds())
}

// ObserveCache records a cache lookup result
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served HTTP request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
