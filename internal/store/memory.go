package store

import (
	"context"
	"sync"

	"github.com/visionhire/backend/internal/domain/interview"
)

// MemoryStore keeps interviews in a map. Used by tests.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews map[string]*interview.Interview
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{
		interviews: make(map[string]*interview.Interview),
	}
}

func (s *MemoryStore) SaveInterview(ctx context.Context, iv *interview.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *iv
	copied.History = make([]interview.QuestionRecord, len(iv.History))
	copy(copied.History, iv.History)
	s.interviews[iv.ID] = &copied
	return nil
}

func (s *MemoryStore) GetInterview(ctx context.Context, id string) (*interview.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iv, ok := s.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *iv
	copied.History = make([]interview.QuestionRecord, len(iv.History))
	copy(copied.History, iv.History)
	return &copied, nil
}
