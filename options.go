package analyticord

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	Config

	httpClient     *http.Client
	logger         *zerolog.Logger
	onError        func(error)
	drainRetry     RetryConfig
	requeue        bool
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

// WithBaseURL points the client at another Analyticord deployment.
func WithBaseURL(u string) Option {
	return func(c *clientConfig) { c.BaseURL = u }
}

// WithUserToken sets the token used by GetData, BotInfo and BotList.
func WithUserToken(token string) Option {
	return func(c *clientConfig) { c.UserToken = token }
}

// WithFlushInterval sets the background flush period (default 60s).
func WithFlushInterval(d time.Duration) Option {
	return func(c *clientConfig) { c.FlushInterval = d }
}

// WithTimeout sets the timeout of the HTTP client built by the library (default 30s).
// It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.Timeout = d }
}

// WithEvents registers additional event types at construction.
func WithEvents(names ...string) Option {
	return func(c *clientConfig) { c.Events = append(c.Events, names...) }
}

// WithHTTPClient provides a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// WithLogger sets the logger used for lifecycle and flush messages.
func WithLogger(l zerolog.Logger) Option {
	return func(c *clientConfig) { c.logger = &l }
}

// WithOnError registers a callback for errors from background flushes,
// which are otherwise only logged.
func WithOnError(fn func(error)) Option {
	return func(c *clientConfig) { c.onError = fn }
}

// WithDrainRetry retries the final flush on Stop according to cfg.
// By default a failed final flush is logged and its counts are discarded.
func WithDrainRetry(cfg RetryConfig) Option {
	return func(c *clientConfig) { c.drainRetry = cfg }
}

// WithRequeueOnFailure puts counts the server rejected back on their
// counter so the next flush submits them again. Counts lost to connection
// errors are not requeued because the server may have recorded them.
func WithRequeueOnFailure() Option {
	return func(c *clientConfig) { c.requeue = true }
}

// WithRegisterer registers the client's Prometheus collectors on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *clientConfig) { c.registerer = reg }
}

// WithTracerProvider sets the provider for request spans (default: the global provider).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *clientConfig) { c.tracerProvider = tp }
}
