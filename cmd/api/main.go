package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gvasques77-sys/agent-service/internal/agent"
	"github.com/gvasques77-sys/agent-service/internal/api/router"
	appconfig "github.com/gvasques77-sys/agent-service/internal/config"
	"github.com/gvasques77-sys/agent-service/internal/observability/metrics"
	"github.com/gvasques77-sys/agent-service/pkg/logging"
)

func main() {
	// Load .env in local development; ignored when absent
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agent-service API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	agentMetrics := metrics.NewAgentMetrics(nil)

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	rulesStore := agent.NewRedisRulesStore(redisClient)
	knowledgeStore := agent.NewRedisKnowledgeStore(redisClient)
	loader := agent.NewContextLoader(rulesStore, knowledgeStore, cfg.KnowledgeSnippetLimit, logger, agentMetrics)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	// The outcome log is optional; without DATABASE_URL the service runs
	// answer-only.
	var outcomes agent.OutcomeAppender
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(startCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		outcomes = agent.NewPGOutcomeLog(pool)
		logger.Info("outcome logging enabled")
	} else {
		logger.Warn("DATABASE_URL not set, outcome logging disabled")
	}

	gemini, err := agent.NewGeminiToolCaller(startCtx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create Gemini client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = gemini.Close() }()

	orchestrator := agent.NewOrchestrator(gemini, outcomes, logger, agentMetrics, agent.OrchestratorConfig{
		MaxSteps:            cfg.AgentMaxSteps,
		ConfidenceThreshold: cfg.AgentConfidenceThreshold,
	})
	agentHandler := agent.NewHandler(loader, orchestrator, logger, agent.HandlerConfig{
		Timeout: cfg.AgentTimeout,
		Debug:   cfg.AgentDebug,
	})

	r := router.New(&router.Config{
		Logger:         logger,
		AgentHandler:   agentHandler,
		MetricsHandler: promhttp.Handler(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
