package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/visionhire/backend/internal/analyzer"
	"github.com/visionhire/backend/internal/api"
	"github.com/visionhire/backend/internal/domain/interview"
	"github.com/visionhire/backend/internal/genai"
	"github.com/visionhire/backend/internal/metrics"
	"github.com/visionhire/backend/internal/service"
	"github.com/visionhire/backend/internal/store"
)

// newTestMux builds the full handler stack over an in-memory store and
// a disabled generation client, so every question falls back to the
// default and every score is zero.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	throttle := genai.NewThrottle(0)
	policy := genai.RetryPolicy{
		MaxAttempts: 1,
		Backoff:     func(int) time.Duration { return 0 },
	}
	client := genai.NewClient(nil, throttle, policy, logger)
	svc := service.New(store.NewMemory(), client, analyzer.New(client, logger), metrics.New(), logger)
	handler := api.NewHandler(svc, metrics.New(), logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func startInterview(t *testing.T, mux *http.ServeMux, userID string) api.StartInterviewResponse {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/interviews", `{"user_id": "`+userID+`", "domain": "dbms"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: status %d, body %s", rec.Code, rec.Body.String())
	}

	var res api.StartInterviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("start: bad response: %v", err)
	}
	return res
}

func TestStartInterview(t *testing.T) {
	mux := newTestMux(t)

	res := startInterview(t, mux, "user-1")

	if res.InterviewID == "" {
		t.Error("expected an interview id")
	}
	if res.Question != interview.DefaultQuestion {
		t.Errorf("question = %q, want default (client disabled)", res.Question)
	}
	if res.Domain != "database management systems" {
		t.Errorf("domain = %q", res.Domain)
	}
	if res.DomainLabel != "Database Management Systems" {
		t.Errorf("domain label = %q", res.DomainLabel)
	}
}

func TestStartInterview_MissingUserID(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/interviews", `{"domain": "os"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitAnswer(t *testing.T) {
	mux := newTestMux(t)
	started := startInterview(t, mux, "user-1")

	rec := doJSON(t, mux, http.MethodPost, "/interviews/"+started.InterviewID+"/answers", `{"answer": "my answer"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res api.SubmitAnswerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Score != 0 || res.MaxScore != interview.PerQuestionMax {
		t.Errorf("score %d/%d", res.Score, res.MaxScore)
	}
	if res.QuestionsAsked != 1 || res.Finished {
		t.Errorf("unexpected progression: %+v", res)
	}
	if res.Question != interview.DefaultQuestion {
		t.Errorf("next question = %q", res.Question)
	}
	if res.Keywords == nil {
		t.Error("keywords should serialize as an empty list, not null")
	}
}

func TestSubmitAnswer_Validation(t *testing.T) {
	mux := newTestMux(t)
	started := startInterview(t, mux, "user-1")

	rec := doJSON(t, mux, http.MethodPost, "/interviews/"+started.InterviewID+"/answers", `{"answer": "   "}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty answer: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/interviews/"+started.InterviewID+"/answers", `not json`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d, want 400", rec.Code)
	}
}

func TestSubmitAnswer_UnknownInterview(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/interviews/nope/answers", `{"answer": "hello"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetResult_OwnershipChecks(t *testing.T) {
	mux := newTestMux(t)
	started := startInterview(t, mux, "owner")

	rec := doJSON(t, mux, http.MethodGet, "/interviews/"+started.InterviewID+"/result", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing header: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/interviews/"+started.InterviewID+"/result", "", map[string]string{"X-User-ID": "intruder"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong owner: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/interviews/missing/result", "", map[string]string{"X-User-ID": "owner"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/interviews/"+started.InterviewID+"/result", "", map[string]string{"X-User-ID": "owner"})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner read: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res api.ResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.MaxScore != interview.MaxQuestions*interview.PerQuestionMax {
		t.Errorf("max score = %d", res.MaxScore)
	}
	if len(res.History) != 1 || res.History[0].Answer != "" {
		t.Errorf("expected the open opening question in history, got %+v", res.History)
	}
}

func TestEndInterview(t *testing.T) {
	mux := newTestMux(t)
	started := startInterview(t, mux, "user-1")

	rec := doJSON(t, mux, http.MethodPost, "/interviews/"+started.InterviewID+"/end", `{"user_id": "user-1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res api.ResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Finished {
		t.Error("expected finished result")
	}

	// Further answers are rejected.
	rec = doJSON(t, mux, http.MethodPost, "/interviews/"+started.InterviewID+"/answers", `{"answer": "late"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("answer after end: status = %d, want 409", rec.Code)
	}
}

func TestFullInterviewOverHTTP(t *testing.T) {
	mux := newTestMux(t)
	started := startInterview(t, mux, "user-1")

	var last api.SubmitAnswerResponse
	for turn := 1; turn <= interview.MaxQuestions; turn++ {
		rec := doJSON(t, mux, http.MethodPost, "/interviews/"+started.InterviewID+"/answers", `{"answer": "answer"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("turn %d: status %d", turn, rec.Code)
		}
		last = api.SubmitAnswerResponse{}
		if err := json.Unmarshal(rec.Body.Bytes(), &last); err != nil {
			t.Fatal(err)
		}
	}

	if !last.Finished {
		t.Error("expected finished after max turns")
	}
	if last.Question != "" {
		t.Errorf("expected no further question, got %q", last.Question)
	}
	if last.QuestionsAsked != interview.MaxQuestions {
		t.Errorf("questions asked = %d", last.QuestionsAsked)
	}
}
