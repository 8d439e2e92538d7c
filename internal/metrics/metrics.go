// Package metrics keeps process-wide counters for the interview
// orchestrator, exposed read-only through the API.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	InterviewsStarted   int64
	InterviewsCompleted int64
	AnswersScored       int64
	GenerationFallbacks int64
	LastUpdateTime      time.Time
}

func New() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementInterviewsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InterviewsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementInterviewsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InterviewsCompleted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersScored++
	m.LastUpdateTime = time.Now()
}

// IncrementGenerationFallbacks counts turns where generated content
// was replaced by a static fallback.
func (m *Metrics) IncrementGenerationFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerationFallbacks++
	m.LastUpdateTime = time.Now()
}

// Snapshot returns a copy safe to serialize.
func (m *Metrics) Snapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		InterviewsStarted:   m.InterviewsStarted,
		InterviewsCompleted: m.InterviewsCompleted,
		AnswersScored:       m.AnswersScored,
		GenerationFallbacks: m.GenerationFallbacks,
		LastUpdateTime:      m.LastUpdateTime,
	}
}
