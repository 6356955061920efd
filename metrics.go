package analyticord

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "analyticord"
	metricsSubsystem = "client"
)

// Request outcomes besides the error kind names.
const (
	outcomeOK              = "ok"
	outcomeConnectionError = "connection_error"
	outcomeConfigError     = "config_error"
)

// clientMetrics holds the Prometheus collectors of one client. Clients that
// share a Registerer share the underlying collectors.
type clientMetrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsFlushed   *prometheus.CounterVec
	flushFailures   *prometheus.CounterVec
	eventsRequeued  *prometheus.CounterVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "requests_total",
				Help:      "API requests by endpoint and outcome (ok, connection_error, config_error or the API error kind)",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of API round trips in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		eventsFlushed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "events_flushed_total",
				Help:      "Event counts successfully submitted by flushes",
			},
			[]string{"event"},
		),
		flushFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "flush_failures_total",
				Help:      "Failed flush submissions by event",
			},
			[]string{"event"},
		),
		eventsRequeued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "events_requeued_total",
				Help:      "Event counts put back on their counter after a rejected flush",
			},
			[]string{"event"},
		),
	}

	if reg != nil {
		m.requests = registerOrExisting(reg, m.requests)
		m.requestDuration = registerOrExisting(reg, m.requestDuration)
		m.eventsFlushed = registerOrExisting(reg, m.eventsFlushed)
		m.flushFailures = registerOrExisting(reg, m.flushFailures)
		m.eventsRequeued = registerOrExisting(reg, m.eventsRequeued)
	}
	return m
}

// registerOrExisting registers c, or returns the collector already
// registered under the same descriptor.
func registerOrExisting[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}
	return c
}

// requestOutcome maps a do() error onto the outcome label.
func requestOutcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return outcomeConfigError
	}
	return outcomeConnectionError
}
