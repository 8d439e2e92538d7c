// Package service orchestrates interview sessions: it owns the turn
// loop that asks questions, scores answers, and decides between a
// follow-up and a fresh topic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/visionhire/backend/internal/analyzer"
	"github.com/visionhire/backend/internal/domain/interview"
	"github.com/visionhire/backend/internal/domain/topic"
	"github.com/visionhire/backend/internal/extract"
	"github.com/visionhire/backend/internal/genai"
	"github.com/visionhire/backend/internal/metrics"
	"github.com/visionhire/backend/internal/store"
)

var (
	// ErrForbidden is returned when a requester asks for an interview
	// they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyAnswer rejects blank submissions before any state changes.
	ErrEmptyAnswer = errors.New("answer required")
)

// difficultyTier is templated into the opening-question prompt.
const difficultyTier = "easy"

// StartResult is the response shape for a newly started interview.
type StartResult struct {
	SessionID  string
	Question   string
	Topic      string
	TopicLabel string
}

// AnswerResult is the response shape for one scored answer. Question
// is empty once the interview has finished.
type AnswerResult struct {
	Question       string
	Score          int
	MaxScore       int
	Reason         string
	Keywords       []string
	QuestionsAsked int
	Finished       bool
	Topic          string
	TopicLabel     string
}

// Summary is the read-only projection of a session, partial while the
// interview is still running.
type Summary struct {
	SessionID         string
	Score             int
	MaxScore          int
	QuestionsAnswered int
	Finished          bool
	History           []interview.QuestionRecord
	Topic             string
	TopicLabel        string
	CreatedAt         time.Time
}

// InterviewService drives interview sessions. Turn processing for one
// session is serialized through a per-session mutex; different
// sessions run in parallel and meet only at the shared generation
// throttle.
type InterviewService struct {
	store    store.Store
	client   *genai.Client
	analyzer *analyzer.Analyzer
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // sessionID → turn lock
}

// New creates an InterviewService.
func New(s store.Store, client *genai.Client, a *analyzer.Analyzer, m *metrics.Metrics, logger *slog.Logger) *InterviewService {
	return &InterviewService{
		store:    s,
		client:   client,
		analyzer: a,
		metrics:  m,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session.
func (s *InterviewService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// dropSessionLock forgets a finished session's turn lock so the map
// does not grow without bound.
func (s *InterviewService) dropSessionLock(sessionID string) {
	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
}

// Start resolves the topic, generates the opening question, and
// persists a fresh session.
func (s *InterviewService) Start(ctx context.Context, ownerID, topicInput string) (*StartResult, error) {
	t := topic.Resolve(topicInput)

	prompt := fmt.Sprintf(`You are a concise interviewer specialized in %s.
Ask ONE single-sentence %s level technical interview question.
Output only the question, nothing else.`, t.Label, difficultyTier)

	question := s.generateQuestion(ctx, prompt)

	iv := interview.New(ownerID, t, question)
	if err := s.store.SaveInterview(ctx, iv); err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}

	s.metrics.IncrementInterviewsStarted()
	s.logger.Info("interview started",
		"interview_id", iv.ID,
		"owner_id", ownerID,
		"topic", t.Key,
	)

	return &StartResult{
		SessionID:  iv.ID,
		Question:   question,
		Topic:      t.Key,
		TopicLabel: t.Label,
	}, nil
}

// SubmitAnswer scores the answer to the open question and issues the
// next question, or finishes the interview once the turn limit is
// reached. Generation failures never surface: scoring degrades to
// zero and question generation to the default question.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	iv, err := s.store.GetInterview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if iv.Finished {
		return nil, interview.ErrFinished
	}

	openQuestion, ok := iv.OpenQuestion()
	if !ok {
		return nil, interview.ErrNoOpen
	}

	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return nil, ErrEmptyAnswer
	}

	analysis := s.analyzer.Analyze(ctx, trimmed, openQuestion)

	score := normalizeScore(analysis.Score)
	reason := analysis.Reason
	if reason == "" {
		reason = interview.FallbackReason(score)
	}

	if err := iv.CloseQuestion(trimmed, score, reason, analysis.Keywords); err != nil {
		return nil, err
	}
	s.metrics.IncrementAnswersScored()

	nextQuestion := ""
	if iv.Finished {
		s.metrics.IncrementInterviewsCompleted()
		s.logger.Info("interview finished",
			"interview_id", iv.ID,
			"score", iv.Score,
		)
	} else {
		nextQuestion = s.nextQuestion(ctx, iv, analysis)
	}

	if err := s.store.SaveInterview(ctx, iv); err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}
	if iv.Finished {
		s.dropSessionLock(sessionID)
	}

	return &AnswerResult{
		Question:       nextQuestion,
		Score:          score,
		MaxScore:       interview.PerQuestionMax,
		Reason:         reason,
		Keywords:       keywordsOrEmpty(analysis.Keywords),
		QuestionsAsked: iv.QuestionsAsked,
		Finished:       iv.Finished,
		Topic:          iv.Topic.Key,
		TopicLabel:     iv.Topic.Label,
	}, nil
}

// nextQuestion picks a follow-up while the streak allows it and the
// analyzer suggested one; otherwise it asks the model for a fresh
// topic away from the keywords just covered.
func (s *InterviewService) nextQuestion(ctx context.Context, iv *interview.Interview, analysis analyzer.Analysis) string {
	if iv.CanFollowUp() && analysis.FollowUp != "" {
		question := keywordPreamble(analysis.Keywords) + analysis.FollowUp
		if err := iv.AppendQuestion(question, true); err == nil {
			return question
		}
	}

	excluded := strings.Join(analysis.Keywords, ", ")
	if excluded == "" {
		excluded = "previous topics"
	}
	prompt := fmt.Sprintf("Ask a new technical interview question in %s that is not related to %s. Keep it single sentence and concise.",
		iv.Topic.Label, excluded)

	question := s.generateQuestion(ctx, prompt)
	if err := iv.AppendQuestion(question, false); err != nil {
		s.logger.Error("could not append next question", "interview_id", iv.ID, "error", err)
		return ""
	}
	return question
}

// EndEarly finishes an interview before the turn limit. The open
// question, if any, stays unanswered with a zero score.
func (s *InterviewService) EndEarly(ctx context.Context, sessionID, requesterID string) (*Summary, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	iv, err := s.store.GetInterview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if iv.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	if !iv.Finished {
		iv.Finish()
		if err := s.store.SaveInterview(ctx, iv); err != nil {
			return nil, fmt.Errorf("save interview: %w", err)
		}
		s.metrics.IncrementInterviewsCompleted()
		s.logger.Info("interview ended early", "interview_id", iv.ID)
	}
	s.dropSessionLock(sessionID)

	return summarize(iv), nil
}

// Result returns the session summary, enforcing ownership.
func (s *InterviewService) Result(ctx context.Context, sessionID, requesterID string) (*Summary, error) {
	iv, err := s.store.GetInterview(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if iv.OwnerID != requesterID {
		return nil, ErrForbidden
	}
	return summarize(iv), nil
}

// generateQuestion runs the prompt through the generation client and
// the extractor, falling back to the default question when either
// produces nothing usable.
func (s *InterviewService) generateQuestion(ctx context.Context, prompt string) string {
	text, err := s.client.Generate(ctx, prompt)
	if err != nil {
		if !errors.Is(err, genai.ErrDisabled) {
			s.logger.Warn("question generation degraded to default", "error", err)
		}
		s.metrics.IncrementGenerationFallbacks()
		return interview.DefaultQuestion
	}

	question := extract.Question(text)
	if question == "" {
		s.metrics.IncrementGenerationFallbacks()
		return interview.DefaultQuestion
	}
	return question
}

func summarize(iv *interview.Interview) *Summary {
	history := make([]interview.QuestionRecord, len(iv.History))
	copy(history, iv.History)

	return &Summary{
		SessionID:         iv.ID,
		Score:             iv.Score,
		MaxScore:          interview.MaxQuestions * interview.PerQuestionMax,
		QuestionsAnswered: iv.QuestionsAsked,
		Finished:          iv.Finished,
		History:           history,
		Topic:             iv.Topic.Key,
		TopicLabel:        iv.Topic.Label,
		CreatedAt:         iv.CreatedAt,
	}
}

// normalizeScore maps the analyzer's raw number into [0, PerQuestionMax].
func normalizeScore(raw float64) int {
	if math.IsNaN(raw) || raw < 0 {
		return 0
	}
	score := int(math.Round(raw))
	if score > interview.PerQuestionMax {
		return interview.PerQuestionMax
	}
	return score
}

// keywordPreamble builds the short reasoning lead-in for a follow-up,
// referencing up to the first two extracted keywords.
func keywordPreamble(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	mention := keywords
	if len(mention) > 2 {
		mention = mention[:2]
	}
	return fmt.Sprintf("You mentioned %s, so let me ask — ", strings.Join(mention, ", "))
}

func keywordsOrEmpty(keywords []string) []string {
	if keywords == nil {
		return []string{}
	}
	return keywords
}
