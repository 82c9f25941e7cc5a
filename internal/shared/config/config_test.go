package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "CORS_ORIGINS", "OBJECT_STORE", "LLM_PROVIDER", "LLM_TIMEOUT_SECONDS",
		"EVENTS_BACKEND", "RS_ANALYZE_CONCURRENCY", "RS_MAX_UPLOAD_MB", "GOOGLE_CLOUD_LOCATION",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.Port != "8080" || cfg.Env != "dev" {
		t.Fatalf("unexpected port/env: %q %q", cfg.Port, cfg.Env)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"*"}) {
		t.Fatalf("unexpected cors: %v", cfg.CORSAllowOrigin)
	}
	if cfg.ObjectStoreType != "local" || cfg.LLMProvider != "gemini" || cfg.EventsBackend != "none" {
		t.Fatalf("unexpected backends: %+v", cfg)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.LLMTimeout)
	}
	if cfg.AnalyzeConcurrency != 4 || cfg.MaxUploadBytes != 20<<20 {
		t.Fatalf("unexpected limits: %d %d", cfg.AnalyzeConcurrency, cfg.MaxUploadBytes)
	}
	if cfg.GoogleCloudLocation != "us-central1" {
		t.Fatalf("unexpected location %q", cfg.GoogleCloudLocation)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("LLM_PROVIDER", "VertexAI")
	t.Setenv("LLM_TIMEOUT_SECONDS", "2.5")
	t.Setenv("EVENTS_BACKEND", "rabbitmq")
	t.Setenv("RS_ANALYZE_CONCURRENCY", "8")
	t.Setenv("RS_MAX_UPLOAD_MB", "5")
	t.Setenv("GEMINI_API_KEY", "  key  ")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("unexpected env %q", cfg.Env)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("unexpected cors: %v", cfg.CORSAllowOrigin)
	}
	if cfg.ObjectStoreType != "s3" || cfg.LLMProvider != "vertex" || cfg.EventsBackend != "amqp" {
		t.Fatalf("unexpected backends: %+v", cfg)
	}
	if cfg.LLMTimeout != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout %v", cfg.LLMTimeout)
	}
	if cfg.AnalyzeConcurrency != 8 || cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("unexpected limits: %d %d", cfg.AnalyzeConcurrency, cfg.MaxUploadBytes)
	}
	if cfg.GeminiAPIKey != "key" {
		t.Fatalf("expected trimmed key, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RS_ANALYZE_CONCURRENCY", "-1")
	t.Setenv("RS_MAX_UPLOAD_MB", "lots")
	t.Setenv("LLM_TIMEOUT_SECONDS", "0")

	cfg := Load()
	if cfg.AnalyzeConcurrency != 4 || cfg.MaxUploadBytes != 20<<20 || cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("expected defaults, got %d %d %v", cfg.AnalyzeConcurrency, cfg.MaxUploadBytes, cfg.LLMTimeout)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RS_TEST_FROM_FILE=file\nRS_TEST_PRESET=file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RS_TEST_PRESET", "process")
	t.Setenv("RS_TEST_FROM_FILE", "")
	os.Unsetenv("RS_TEST_FROM_FILE")

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)

	if got := os.Getenv("RS_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("RS_TEST_PRESET"); got != "process" {
		t.Fatalf("expected process value to win, got %q", got)
	}
}
