package api

import (
	"net/http"
	"time"

	"github.com/visionhire/backend/internal/domain/topic"
	"github.com/visionhire/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartInterviewRequest struct {
	UserID string `json:"user_id"`
	Domain string `json:"domain"`
}

type StartInterviewResponse struct {
	InterviewID string `json:"interview_id"`
	Question    string `json:"question"`
	Domain      string `json:"domain"`
	DomainLabel string `json:"domain_label"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

type SubmitAnswerResponse struct {
	Question       string   `json:"question,omitempty"`
	Score          int      `json:"score"`
	MaxScore       int      `json:"max_score"`
	Reason         string   `json:"reason"`
	Keywords       []string `json:"keywords"`
	QuestionsAsked int      `json:"questions_asked"`
	Finished       bool     `json:"finished"`
	Domain         string   `json:"domain"`
	DomainLabel    string   `json:"domain_label"`
}

type EndInterviewRequest struct {
	UserID string `json:"user_id"`
}

type TurnDetails struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Score       int      `json:"score"`
	MaxScore    int      `json:"max_score"`
	ScoreReason string   `json:"score_reason"`
	Keywords    []string `json:"keywords"`
}

type ResultResponse struct {
	InterviewID       string        `json:"interview_id"`
	Score             int           `json:"score"`
	MaxScore          int           `json:"max_score"`
	QuestionsAnswered int           `json:"questions_answered"`
	Finished          bool          `json:"finished"`
	History           []TurnDetails `json:"history"`
	Domain            string        `json:"domain"`
	DomainLabel       string        `json:"domain_label"`
	CreatedAt         time.Time     `json:"created_at"`
}

type TopicEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /topics
func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	catalog := topic.All()
	entries := make([]TopicEntry, len(catalog))
	for i, t := range catalog {
		entries[i] = TopicEntry{Value: t.Key, Label: t.Label}
	}
	respondJSON(w, http.StatusOK, entries)
}

// POST /interviews
func (h *Handler) startInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	res, err := h.interviews.Start(r.Context(), req.UserID, req.Domain)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, StartInterviewResponse{
		InterviewID: res.SessionID,
		Question:    res.Question,
		Domain:      res.Topic,
		DomainLabel: res.TopicLabel,
	})
}

// POST /interviews/{interviewID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.interviews.SubmitAnswer(r.Context(), interviewID, req.Answer)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Question:       res.Question,
		Score:          res.Score,
		MaxScore:       res.MaxScore,
		Reason:         res.Reason,
		Keywords:       res.Keywords,
		QuestionsAsked: res.QuestionsAsked,
		Finished:       res.Finished,
		Domain:         res.Topic,
		DomainLabel:    res.TopicLabel,
	})
}

// POST /interviews/{interviewID}/end
func (h *Handler) endInterview(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	var req EndInterviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	summary, err := h.interviews.EndEarly(r.Context(), interviewID, req.UserID)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, resultResponse(interviewID, summary))
}

// GET /interviews/{interviewID}/result
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	requesterID := r.Header.Get("X-User-ID")
	if requesterID == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	summary, err := h.interviews.Result(r.Context(), interviewID, requesterID)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, resultResponse(interviewID, summary))
}

// GET /metrics
func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := h.metrics.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"interviews_started":   snapshot.InterviewsStarted,
		"interviews_completed": snapshot.InterviewsCompleted,
		"answers_scored":       snapshot.AnswersScored,
		"generation_fallbacks": snapshot.GenerationFallbacks,
		"last_update":          snapshot.LastUpdateTime,
	})
}

func resultResponse(interviewID string, summary *service.Summary) ResultResponse {
	history := make([]TurnDetails, len(summary.History))
	for i, rec := range summary.History {
		keywords := rec.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		history[i] = TurnDetails{
			Question:    rec.Question,
			Answer:      rec.Answer,
			Score:       rec.Score,
			MaxScore:    rec.MaxScore,
			ScoreReason: rec.ScoreReason,
			Keywords:    keywords,
		}
	}

	return ResultResponse{
		InterviewID:       interviewID,
		Score:             summary.Score,
		MaxScore:          summary.MaxScore,
		QuestionsAnswered: summary.QuestionsAnswered,
		Finished:          summary.Finished,
		History:           history,
		Domain:            summary.Topic,
		DomainLabel:       summary.TopicLabel,
		CreatedAt:         summary.CreatedAt,
	}
}
