package genai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// RetryPolicy bounds how often a rate-limited call is retried and how
// long to back off between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultRetryPolicy retries three times with linearly increasing
// backoff (2s, 4s, 6s).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 2 * time.Second
		},
	}
}

// Client is the throttled, retrying front door to the generation
// service. A nil generator puts the client in disabled mode: every
// call returns ErrDisabled immediately and callers use static
// fallbacks instead.
type Client struct {
	gen      Generator
	throttle *Throttle
	retry    RetryPolicy
	logger   *slog.Logger

	sleep func(time.Duration) // injectable for tests
}

// NewClient creates a client around gen. Pass a nil Generator for
// disabled mode.
func NewClient(gen Generator, throttle *Throttle, retry RetryPolicy, logger *slog.Logger) *Client {
	return &Client{
		gen:      gen,
		throttle: throttle,
		retry:    retry,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Enabled reports whether a generation backend is configured.
func (c *Client) Enabled() bool {
	return c.gen != nil
}

// Generate produces text for the prompt, waiting out the shared
// throttle window first. Rate-limit rejections are retried up to the
// policy bound; any other failure aborts immediately. The throttle
// timestamp advances after every attempt so the window holds even
// across failures.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.gen == nil {
		return "", ErrDisabled
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		c.throttle.Wait()
		text, err := c.gen.Generate(ctx, prompt)
		c.throttle.Touch()

		if err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed, nil
			}
			lastErr = ErrUnavailable
			continue
		}

		if errors.Is(err, ErrRateLimited) {
			lastErr = err
			wait := c.retry.Backoff(attempt)
			c.logger.Warn("generation rate limited, backing off",
				"attempt", attempt,
				"max_attempts", c.retry.MaxAttempts,
				"backoff", wait,
			)
			c.sleep(wait)
			continue
		}

		c.logger.Error("generation failed", "error", err)
		return "", err
	}

	return "", lastErr
}
