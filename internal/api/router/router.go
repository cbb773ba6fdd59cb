package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gvasques77-sys/agent-service/internal/agent"
	httpmiddleware "github.com/gvasques77-sys/agent-service/internal/http/middleware"
	"github.com/gvasques77-sys/agent-service/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	AgentHandler   *agent.Handler
	MetricsHandler http.Handler

	// Per-IP rate limiting on /process; disabled when RateLimitRPS is 0.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.AgentHandler.Health)
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		r.With(httpmiddleware.RateLimit(cfg.RateLimitRPS, burst)).Post("/process", cfg.AgentHandler.Process)
	} else {
		r.Post("/process", cfg.AgentHandler.Process)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
