package api

import "net/http"

// RegisterRoutes wires all interview endpoints onto the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Catalog
	mux.HandleFunc("GET /topics", h.listTopics)

	// Interviews
	mux.HandleFunc("POST /interviews", h.startInterview)
	mux.HandleFunc("POST /interviews/{interviewID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /interviews/{interviewID}/end", h.endInterview)
	mux.HandleFunc("GET /interviews/{interviewID}/result", h.getResult)

	// Observability
	mux.HandleFunc("GET /metrics", h.getMetrics)
}
