package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	GeminiAPIKey  string
	GeminiModelID string

	// Orchestrator knobs. These bound the tool-calling loop and observability
	// verbosity only; policy correctness never depends on them.
	AgentMaxSteps            int
	AgentConfidenceThreshold float64
	AgentTimeout             time.Duration
	AgentDebug               bool
	KnowledgeSnippetLimit    int

	// Per-IP rate limiting on /process; 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		AgentMaxSteps:            getEnvAsInt("AGENT_MAX_STEPS", 2),
		AgentConfidenceThreshold: getEnvAsFloat("AGENT_CONFIDENCE_THRESHOLD", 0.6),
		AgentTimeout:             time.Duration(getEnvAsInt("AGENT_TIMEOUT_MS", 15000)) * time.Millisecond,
		AgentDebug:               getEnvAsBool("AGENT_DEBUG", false),
		KnowledgeSnippetLimit:    getEnvAsInt("KNOWLEDGE_SNIPPET_LIMIT", 8),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
