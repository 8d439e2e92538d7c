package store

import (
	"context"
	"errors"

	"github.com/visionhire/backend/internal/domain/interview"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists interview sessions. Saves are last-write-wins; the
// orchestrator serializes writes per session, so the store can stay a
// plain keyed object store.
type Store interface {
	SaveInterview(ctx context.Context, iv *interview.Interview) error
	GetInterview(ctx context.Context, id string) (*interview.Interview, error)
}
