package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitbills/splitbills/internal/config"
	"github.com/splitbills/splitbills/internal/gemini"
	"github.com/splitbills/splitbills/internal/service"
	"github.com/splitbills/splitbills/internal/session"
	"github.com/splitbills/splitbills/pkg/logging"
	"github.com/splitbills/splitbills/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Missing credentials or a broken config file is the one fatal,
		// startup-time error; everything past this point is recoverable.
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	assistant, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	slog.Info("Gemini client ready", "model", cfg.GeminiModel)

	svc := service.New(
		assistant,
		session.NewCodeGenerator(),
		time.Duration(cfg.AssistantTimeoutSeconds)*time.Second,
	)

	mux := http.NewServeMux()
	svc.Register(mux)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := corsMiddleware(mux)

	// h2c allows HTTP/2 without TLS for local and reverse-proxied setups.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
