// Package genai wraps the external text-generation service behind a
// throttled, retrying client. All prompt-driven features go through it.
package genai

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks a transient upstream quota rejection. The
	// client retries these with backoff.
	ErrRateLimited = errors.New("generation rate limited")

	// ErrUnavailable marks a permanent-for-this-call upstream failure
	// (bad response, transport error). Not retried.
	ErrUnavailable = errors.New("generation unavailable")

	// ErrDisabled is returned when no generation backend is configured.
	// Callers fall back to static content.
	ErrDisabled = errors.New("generation disabled")
)

// Generator produces text for a prompt. Implementations may call an
// LLM or return canned results (for tests).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
