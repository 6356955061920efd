package analyticord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// State is the lifecycle state of a Client.
type State int

const (
	StateCreated State = iota
	StateStarted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// flushLoop runs fn every interval until stopped.
type flushLoop struct {
	interval time.Duration
	fn       func(ctx context.Context)

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func startFlushLoop(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) *flushLoop {
	l := &flushLoop{
		interval: interval,
		fn:       fn,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go l.run(ctx)
	return l
}

func (l *flushLoop) run(ctx context.Context) {
	defer close(l.doneCh)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.fn(ctx)
		case <-l.stopCh:
			return
		}
	}
}

// stop cancels the wait between cycles and blocks until a cycle that is
// already running has finished.
func (l *flushLoop) stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start logs in and schedules the periodic flush. If login fails the client
// stays in StateCreated, nothing is scheduled and the error is returned.
func (c *Client) Start(ctx context.Context) error {
	c.lc.Lock()
	defer c.lc.Unlock()

	switch c.State() {
	case StateStarted:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrClientStopped
	}

	bot, err := c.Login(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Analyticord login failed; counts will not be sent")
		return err
	}

	loop := startFlushLoop(context.WithoutCancel(ctx), c.cfg.FlushInterval, func(ctx context.Context) {
		_ = c.Flush(ctx)
	})

	c.mu.Lock()
	c.loop = loop
	c.state = StateStarted
	c.mu.Unlock()

	c.logger.Info().
		Str("bot", bot.Name).
		Dur("flush_interval", c.cfg.FlushInterval).
		Strs("events", c.events.Names()).
		Msg("Logged in to Analyticord")
	return nil
}

// Stop cancels the flush schedule, waits for a running flush to finish and
// submits whatever is still pending. Failures of that last flush are logged,
// not returned; ctx bounds the final flush and its retries, and ctx.Err() is
// returned only when it cut a submission short.
// Stop is idempotent.
func (c *Client) Stop(ctx context.Context) error {
	c.lc.Lock()
	defer c.lc.Unlock()

	c.mu.Lock()
	prev := c.state
	loop := c.loop
	c.loop = nil
	c.state = StateStopped
	c.mu.Unlock()

	if prev != StateStarted {
		return nil
	}

	loop.stop()
	err := c.drain(ctx)
	c.logger.Info().Msg("Analyticord client stopped")
	return err
}

// Flush submits the pending count of every registered event that has one.
// A failure for one event does not stop the others; all failures are logged,
// passed to the WithOnError callback and returned joined.
func (c *Client) Flush(ctx context.Context) error {
	var errs []error
	for _, ec := range c.events.Counters() {
		if err := c.flushCounter(ctx, ec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Client) flushCounter(ctx context.Context, ec *EventCounter) error {
	n := ec.ReadAndReset()
	if n == 0 {
		return nil
	}

	if _, err := c.submitCount(ctx, ec.name, n); err != nil {
		c.metrics.flushFailures.WithLabelValues(ec.name).Inc()
		var apiErr *APIError
		requeued := c.cfg.requeue && errors.As(err, &apiErr)
		if requeued {
			ec.Add(n)
			c.metrics.eventsRequeued.WithLabelValues(ec.name).Add(float64(n))
		}
		c.logger.Warn().
			Err(err).
			Str("event", ec.name).
			Int64("count", n).
			Bool("requeued", requeued).
			Msg("Failed to flush event count")
		err = fmt.Errorf("flush %s: %w", ec.name, err)
		c.reportError(err)
		return err
	}
	c.metrics.eventsFlushed.WithLabelValues(ec.name).Add(float64(n))
	return nil
}

func (c *Client) submitCount(ctx context.Context, event string, n int64) (*SubmitResult, error) {
	return c.Send(ctx, event, strconv.FormatInt(n, 10))
}

// drain is the final flush run by Stop. Each event is retried according to
// the drain retry policy; what still fails is logged and dropped. It returns
// ctx.Err() if a submission failed because ctx ended.
func (c *Client) drain(ctx context.Context) error {
	retry := c.cfg.drainRetry.withDefaults()
	var interrupted error
	for _, ec := range c.events.Counters() {
		n := ec.ReadAndReset()
		if n == 0 {
			continue
		}
		if err := c.drainCounter(ctx, retry, ec.name, n); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				interrupted = ctxErr
			}
			c.metrics.flushFailures.WithLabelValues(ec.name).Inc()
			c.logger.Warn().
				Err(err).
				Str("event", ec.name).
				Int64("count", n).
				Msg("Dropping event count after failed final flush")
			c.reportError(fmt.Errorf("drain %s: %w", ec.name, err))
			continue
		}
		c.metrics.eventsFlushed.WithLabelValues(ec.name).Add(float64(n))
	}
	return interrupted
}

func (c *Client) drainCounter(ctx context.Context, retry RetryConfig, event string, n int64) error {
	for attempt := 0; ; attempt++ {
		_, err := c.submitCount(ctx, event, n)
		if err == nil || attempt >= retry.MaxRetries || !shouldRetry(err) {
			return err
		}
		delay := retryDelay(retry, attempt, err)
		c.logger.Debug().
			Err(err).
			Str("event", event).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying final flush")
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
	}
}

func (c *Client) reportError(err error) {
	if c.cfg.onError != nil {
		c.cfg.onError(err)
	}
}
