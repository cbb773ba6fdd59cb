package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GEMINI_MODEL_ID", "")
	t.Setenv("AGENT_MAX_STEPS", "")
	t.Setenv("AGENT_CONFIDENCE_THRESHOLD", "")
	t.Setenv("AGENT_TIMEOUT_MS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Fatalf("expected default model, got %s", cfg.GeminiModelID)
	}
	if cfg.AgentMaxSteps != 2 {
		t.Fatalf("expected default step budget 2, got %d", cfg.AgentMaxSteps)
	}
	if cfg.AgentConfidenceThreshold != 0.6 {
		t.Fatalf("expected default confidence threshold 0.6, got %v", cfg.AgentConfidenceThreshold)
	}
	if cfg.AgentTimeout != 15*time.Second {
		t.Fatalf("expected default timeout 15s, got %s", cfg.AgentTimeout)
	}
	if cfg.AgentDebug {
		t.Fatal("expected debug disabled by default")
	}
	if cfg.KnowledgeSnippetLimit != 8 {
		t.Fatalf("expected default snippet limit 8, got %d", cfg.KnowledgeSnippetLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("GEMINI_MODEL_ID", "gemini-2.5-pro")
	t.Setenv("AGENT_MAX_STEPS", "3")
	t.Setenv("AGENT_CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("AGENT_TIMEOUT_MS", "5000")
	t.Setenv("AGENT_DEBUG", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "localhost:6380" {
		t.Fatalf("expected redis override, got %s", cfg.RedisAddr)
	}
	if cfg.GeminiModelID != "gemini-2.5-pro" {
		t.Fatalf("expected model override, got %s", cfg.GeminiModelID)
	}
	if cfg.AgentMaxSteps != 3 {
		t.Fatalf("expected step budget override, got %d", cfg.AgentMaxSteps)
	}
	if cfg.AgentConfidenceThreshold != 0.75 {
		t.Fatalf("expected threshold override, got %v", cfg.AgentConfidenceThreshold)
	}
	if cfg.AgentTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.AgentTimeout)
	}
	if !cfg.AgentDebug {
		t.Fatal("expected debug override enabled")
	}
}
