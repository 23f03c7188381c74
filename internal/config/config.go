package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
	Quota    QuotaConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	TracingEnabled     bool
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret string // empty enables stub identities
}

type AIConfig struct {
	LLMProvider          string // "ollama", "gemini" or "none"
	LLMModel             string
	OllamaBaseURL        string
	GeminiAPIKey         string
	UseLLMIntent         bool
	AnalysisBackend      string // "agent" or "schema"
	ExtractorsSchemaPath string
}

type QuotaConfig struct {
	Store string // "memory" or "redis"
}

type JobsConfig struct {
	DefaultSource string // "mock" or "apify_linkedin"
	DefaultTopN   int
	ApifyToken    string
	ApifyActorID  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/usage.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			TracingEnabled:     getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:          strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			LLMModel:             getEnv("LLM_MODEL", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			UseLLMIntent:         getEnvAsBool("USE_LLM_INTENT", true),
			AnalysisBackend:      strings.ToLower(getEnv("DOCUMENT_ANALYSIS_BACKEND", "agent")),
			ExtractorsSchemaPath: getEnv("EXTRACTORS_SCHEMA_PATH", "configs/extractors.yaml"),
		},
		Quota: QuotaConfig{
			Store: strings.ToLower(getEnv("QUOTA_STORE", "memory")),
		},
		Jobs: JobsConfig{
			DefaultSource: getEnv("JOBS_DEFAULT_SOURCE", "mock"),
			DefaultTopN:   getEnvAsInt("JOBS_DEFAULT_TOP_N", 5),
			ApifyToken:    getEnv("APIFY_API_TOKEN", ""),
			ApifyActorID:  getEnv("APIFY_LINKEDIN_ACTOR_ID", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsBool accepts 1/true/yes/on and 0/false/no/off, case-insensitive.
func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(getEnv(key, ""))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
