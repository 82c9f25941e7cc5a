package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultLLMTimeout    = 30 * time.Second
	defaultMaxUploadMB   = 20
	defaultConcurrency   = 4
	defaultParseRate     = 1.0
	defaultParseBurst    = 10
	defaultVertexRegion  = "us-central1"
	defaultEventsBackend = "none"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider           string
	LLMModel              string
	LLMTimeout            time.Duration
	GeminiAPIKey          string
	OpenAIAPIKey          string
	GoogleCloudProject    string
	GoogleCloudLocation   string
	GoogleCredentialsJSON string

	EventsBackend string
	SQSQueueURL   string
	RabbitMQURL   string

	AnalyzeConcurrency int
	MaxUploadBytes     int64
	ParseRatePerSec    float64
	ParseBurst         int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		DatabaseURL:     dbURL,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ORIGINS", "*")),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		LLMProvider:           normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:              getEnv("LLM_MODEL", ""),
		LLMTimeout:            getSeconds("LLM_TIMEOUT_SECONDS", defaultLLMTimeout),
		GeminiAPIKey:          strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", defaultVertexRegion),
		GoogleCredentialsJSON: getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),

		EventsBackend: normalizeEventsBackend(getEnv("EVENTS_BACKEND", defaultEventsBackend)),
		SQSQueueURL:   getEnv("RS_SQS_QUEUE_URL", ""),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),

		AnalyzeConcurrency: getInt("RS_ANALYZE_CONCURRENCY", defaultConcurrency),
		MaxUploadBytes:     int64(getInt("RS_MAX_UPLOAD_MB", defaultMaxUploadMB)) << 20,
		ParseRatePerSec:    getFloat("RS_PARSE_RATE_PER_SEC", defaultParseRate),
		ParseBurst:         getInt("RS_PARSE_BURST", defaultParseBurst),
	}
}

// loadEnvFiles loads KEY=VALUE files that exist. Variables already set in the
// process environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: skipping %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		log.Printf("config: invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return val
}

func getSeconds(key string, def time.Duration) time.Duration {
	secs := getFloat(key, def.Seconds())
	if secs <= 0 {
		return def
	}
	return time.Duration(secs * float64(time.Second))
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "none", "off":
		return "none"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "vertex", "vertexai":
		return "vertex"
	case "none", "off":
		return "none"
	default:
		return "gemini"
	}
}

func normalizeEventsBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqs":
		return "sqs"
	case "amqp", "rabbitmq":
		return "amqp"
	default:
		return "none"
	}
}
