package analyticord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/nitros12/analyticord-go"

// Client is the Analyticord API client. It is safe for concurrent use.
type Client struct {
	cfg        clientConfig
	id         string
	httpClient *http.Client
	logger     zerolog.Logger
	tracer     trace.Tracer
	metrics    *clientMetrics
	events     *EventRegistry

	// lc serializes Start and Stop; mu guards state and loop.
	lc    sync.Mutex
	mu    sync.Mutex
	state State
	loop  *flushLoop
}

// NewClient creates a Client for the given bot token, using DefaultConfig
// for everything the options leave unset.
func NewClient(botToken string, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.BotToken = botToken
	return NewClientFromConfig(cfg, opts...)
}

// NewClientFromEnv creates a Client from the ANALYTICORD_* environment variables.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return NewClientFromConfig(cfg, opts...)
}

// NewClientFromConfig creates a Client from cfg. Options override cfg.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cc := clientConfig{Config: cfg}
	for _, o := range opts {
		o(&cc)
	}
	cc.BaseURL = strings.TrimRight(cc.BaseURL, "/")
	if err := cc.Config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cc,
		id:         uuid.NewString(),
		httpClient: cc.httpClient,
		metrics:    newClientMetrics(cc.registerer),
		events:     NewEventRegistry(),
		state:      StateCreated,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cc.Timeout}
	}

	base := log.Logger.With().Str("component", "analyticord").Logger()
	if cc.logger != nil {
		base = *cc.logger
	}
	c.logger = base.With().Str("client_id", c.id).Logger()

	tp := cc.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c.tracer = tp.Tracer(instrumentationName)

	for _, name := range append([]string{EventMessages}, cc.Events...) {
		if _, err := c.events.Register(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ID returns the random identifier of this client instance, used in logs.
func (c *Client) ID() string { return c.id }

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// do performs exactly one request against ep. A non-200 response is
// returned as an *APIError; out receives the decoded body on success, or
// the raw body when it is a *[]byte.
func (c *Client) do(ctx context.Context, ep endpoint, params, form url.Values, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "analyticord."+ep.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", ep.method),
			attribute.String("url.path", ep.path),
		),
	)
	start := time.Now()
	defer func() {
		c.metrics.requests.WithLabelValues(ep.name, requestOutcome(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	token := c.cfg.BotToken
	if ep.scope == scopeUser {
		token = c.cfg.UserToken
		if token == "" {
			return &ConfigError{Op: ep.name, Err: ErrUserTokenRequired}
		}
	}

	fullURL := c.cfg.BaseURL + ep.path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, ep.method, fullURL, body)
	if err != nil {
		return fmt.Errorf("analyticord: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", ep.scope.prefix()+" "+token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	c.metrics.requestDuration.WithLabelValues(ep.name).Observe(time.Since(start).Seconds())
	if err != nil {
		return &ConnectionError{Op: ep.name, Cause: err}
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return &ConnectionError{Op: ep.name, Cause: fmt.Errorf("read response: %w", err)}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		apiErr := Classify(decodeErrorBody(respBody), resp.StatusCode)
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := strconv.ParseFloat(ra, 64); perr == nil && secs > 0 {
				apiErr.RetryAfter = time.Duration(secs * float64(time.Second))
			}
		}
		return apiErr
	}

	if raw, ok := out.(*[]byte); ok {
		*raw = respBody
		return nil
	}
	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("analyticord: %s: unmarshal response: %w", ep.name, err)
		}
	}
	return nil
}

// decodeErrorBody returns the JSON value of body, or the raw text when it
// is not JSON, or nil when it is empty.
func decodeErrorBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(trimmed)
	}
	return v
}

// Login validates the bot token and returns the bot it belongs to. Any 200
// response is a successful login; when the body does not describe a bot the
// returned Bot is empty.
func (c *Client) Login(ctx context.Context) (*Bot, error) {
	var body []byte
	if err := c.do(ctx, endpointLogin, nil, nil, &body); err != nil {
		return nil, err
	}
	return decodeLoginBody(body), nil
}

// Send submits one event immediately, bypassing the counters.
func (c *Client) Send(ctx context.Context, eventType, data string) (*SubmitResult, error) {
	form := url.Values{}
	form.Set("eventType", eventType)
	form.Set("data", data)

	var result SubmitResult
	if err := c.do(ctx, endpointSubmit, nil, form, &result); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("event", eventType).
		Str("data", data).
		Str("verify_url", result.VerifyURL(c.cfg.BaseURL)).
		Msg("Submitted event")
	return &result, nil
}

// GetData retrieves previously submitted data. Requires a user token.
func (c *Client) GetData(ctx context.Context, params url.Values) ([]Record, error) {
	var records []Record
	if err := c.do(ctx, endpointGetData, params, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// BotInfo looks up one bot by id. Requires a user token.
func (c *Client) BotInfo(ctx context.Context, id string) (*Bot, error) {
	p := url.Values{}
	p.Set("id", id)
	var bot Bot
	if err := c.do(ctx, endpointBotInfo, p, nil, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// BotList lists the bots owned by the user token.
func (c *Client) BotList(ctx context.Context) ([]Bot, error) {
	var bots []Bot
	if err := c.do(ctx, endpointBotList, nil, nil, &bots); err != nil {
		return nil, err
	}
	return bots, nil
}
