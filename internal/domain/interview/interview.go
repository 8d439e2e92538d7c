// Package interview holds the session aggregate for one mock-interview
// attempt: the question/answer history, cumulative score, and the
// follow-up bookkeeping the orchestrator needs to pick the next question.
package interview

import (
	"errors"
	"time"

	"github.com/visionhire/backend/internal/domain/topic"
	"github.com/visionhire/backend/internal/id"
)

const (
	// MaxQuestions is the number of answers that complete an interview.
	MaxQuestions = 15
	// PerQuestionMax is the score ceiling for a single answer.
	PerQuestionMax = 5
	// MaxFollowUpStreak caps consecutive follow-up questions before a
	// fresh topic is forced.
	MaxFollowUpStreak = 3

	// DefaultQuestion is asked whenever question generation is
	// unavailable.
	DefaultQuestion = "Tell me about yourself."
)

var (
	ErrFinished     = errors.New("interview already finished")
	ErrNoOpen       = errors.New("no open question to answer")
	ErrQuestionOpen = errors.New("a question is already awaiting an answer")
)

// QuestionRecord is one turn. A record is open (Answer empty, Score
// zero) from the moment its question is issued until the candidate's
// answer is scored.
type QuestionRecord struct {
	Question    string
	Answer      string
	Score       int
	MaxScore    int
	ScoreReason string
	Keywords    []string
}

// Open reports whether the record still awaits an answer.
func (r QuestionRecord) Open() bool {
	return r.Answer == ""
}

// Interview is the aggregate root for one interview attempt. Only the
// interview itself mutates History; at most the tail record is open.
type Interview struct {
	ID             string
	OwnerID        string
	Topic          topic.Topic
	History        []QuestionRecord
	Score          int
	QuestionsAsked int
	FollowUpStreak int
	Finished       bool
	CreatedAt      time.Time
}

// New creates an interview seeded with the opening question.
func New(ownerID string, t topic.Topic, openingQuestion string) *Interview {
	return &Interview{
		ID:      id.GenerateID(),
		OwnerID: ownerID,
		Topic:   t,
		History: []QuestionRecord{{
			Question: openingQuestion,
			MaxScore: PerQuestionMax,
		}},
		CreatedAt: time.Now().UTC(),
	}
}

// OpenQuestion returns the question currently awaiting an answer.
func (iv *Interview) OpenQuestion() (string, bool) {
	if len(iv.History) == 0 {
		return "", false
	}
	tail := iv.History[len(iv.History)-1]
	if !tail.Open() {
		return "", false
	}
	return tail.Question, true
}

// CloseQuestion records the answer to the open tail question and
// recomputes the cumulative score from the full history. The interview
// finishes once MaxQuestions answers are in.
func (iv *Interview) CloseQuestion(answer string, score int, reason string, keywords []string) error {
	if iv.Finished {
		return ErrFinished
	}
	last := len(iv.History) - 1
	if last < 0 || !iv.History[last].Open() {
		return ErrNoOpen
	}

	iv.History[last].Answer = answer
	iv.History[last].Score = clampScore(score)
	iv.History[last].MaxScore = PerQuestionMax
	iv.History[last].ScoreReason = reason
	iv.History[last].Keywords = keywords

	iv.recomputeScore()
	iv.QuestionsAsked++

	if iv.QuestionsAsked >= MaxQuestions {
		iv.Finished = true
		iv.FollowUpStreak = 0
	}
	return nil
}

// AppendQuestion issues the next question as a new open record.
// followUp tracks the streak: a follow-up increments it, a fresh-topic
// question resets it to zero.
func (iv *Interview) AppendQuestion(question string, followUp bool) error {
	if iv.Finished {
		return ErrFinished
	}
	if _, open := iv.OpenQuestion(); open {
		return ErrQuestionOpen
	}
	if followUp {
		iv.FollowUpStreak++
	} else {
		iv.FollowUpStreak = 0
	}
	iv.History = append(iv.History, QuestionRecord{
		Question: question,
		MaxScore: PerQuestionMax,
	})
	return nil
}

// Finish ends the interview without scoring the open question, if any.
// The open record is kept with an empty answer so results show the
// interview stopped there.
func (iv *Interview) Finish() {
	iv.Finished = true
}

// CanFollowUp reports whether another follow-up question is allowed.
func (iv *Interview) CanFollowUp() bool {
	return iv.FollowUpStreak < MaxFollowUpStreak
}

// recomputeScore derives the cumulative score from the history rather
// than adjusting it incrementally, so a re-scored record can never make
// it drift.
func (iv *Interview) recomputeScore() {
	total := 0
	for _, rec := range iv.History {
		total += rec.Score
	}
	if total < 0 {
		total = 0
	}
	if ceiling := MaxQuestions * PerQuestionMax; total > ceiling {
		total = ceiling
	}
	iv.Score = total
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > PerQuestionMax {
		return PerQuestionMax
	}
	return score
}

// FallbackReason returns a canned score explanation for when the
// analyzer produced none.
func FallbackReason(score int) string {
	switch {
	case score*10 >= PerQuestionMax*8:
		return "Answer covered the key expectations."
	case score*10 >= PerQuestionMax*4:
		return "Answer addressed parts of the question but missed depth."
	default:
		return "Answer lacked required detail or accuracy."
	}
}
