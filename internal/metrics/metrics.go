package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	AssessmentsTotal *prometheus.CounterVec

	ErrorsLocatedTotal   prometheus.Counter
	ErrorsUnlocatedTotal prometheus.Counter

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essaycoach_requests_total",
				Help: "Total number of requests processed",
			},
			[]string{"transport", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "essaycoach_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"transport"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "essaycoach_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		LLMRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essaycoach_llm_requests_total",
				Help: "Total number of LLM API requests",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "essaycoach_llm_request_duration_seconds",
				Help:    "LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		AssessmentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essaycoach_assessments_total",
				Help: "Total number of completed assessments",
			},
			[]string{"level", "task"},
		),

		ErrorsLocatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "essaycoach_errors_located_total",
				Help: "Total number of error annotations located in the text",
			},
		),
		ErrorsUnlocatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "essaycoach_errors_unlocated_total",
				Help: "Total number of error annotations that could not be located",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "essaycoach_cache_hits_total",
				Help: "Total number of cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "essaycoach_cache_misses_total",
				Help: "Total number of cache misses",
			},
		),

		RateLimitHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "essaycoach_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"transport"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(transport, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(transport, status).Inc()
	m.RequestDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordAssessment(level, task string) {
	if m == nil {
		return
	}
	m.AssessmentsTotal.WithLabelValues(level, task).Inc()
}

func (m *Metrics) RecordErrorSpans(located, total int) {
	if m == nil {
		return
	}
	m.ErrorsLocatedTotal.Add(float64(located))
	m.ErrorsUnlocatedTotal.Add(float64(total - located))
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit(transport string) {
	if m == nil {
		return
	}
	m.RateLimitHitsTotal.WithLabelValues(transport).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	if m == nil {
		return
	}
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	if m == nil {
		return
	}
	m.RequestsInFlight.Dec()
}
