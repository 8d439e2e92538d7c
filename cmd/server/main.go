package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/visionhire/backend/internal/analyzer"
	"github.com/visionhire/backend/internal/api"
	"github.com/visionhire/backend/internal/genai"
	"github.com/visionhire/backend/internal/infrastructure/config"
	"github.com/visionhire/backend/internal/metrics"
	"github.com/visionhire/backend/internal/service"
	"github.com/visionhire/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var generator genai.Generator
	if cfg.GeminiAPIKey != "" {
		generator = genai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		logger.Info("generation enabled", "model", cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY missing, using fallback questions only")
	}

	throttle := genai.NewThrottle(cfg.GeminiMinInterval)
	retry := genai.DefaultRetryPolicy()
	retry.MaxAttempts = cfg.GeminiMaxRetries
	client := genai.NewClient(generator, throttle, retry, logger)

	counters := metrics.New()
	interviews := service.New(db, client, analyzer.New(client, logger), counters, logger)
	handler := api.NewHandler(interviews, counters, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
