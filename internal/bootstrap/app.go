package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/analysis"
	"resume-screener/internal/llm"
	"resume-screener/internal/llm/gemini"
	"resume-screener/internal/llm/openai"
	"resume-screener/internal/llm/vertex"
	"resume-screener/internal/queue"
	"resume-screener/internal/resumes"
	"resume-screener/internal/review"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/storage/object"
	localstore "resume-screener/internal/shared/storage/object/local"
	s3store "resume-screener/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Events   queue.Client
	Pipeline *analysis.Pipeline
	Service  *resumes.Service
	Handler  *resumes.Handler

	closers []func() error
}

// Build wires every dependency and the router from cfg.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	events, err := buildEvents(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Events = events
	if c, ok := events.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}

	pipeline, closeLLM := BuildPipeline(ctx, cfg)
	app.Pipeline = pipeline
	if closeLLM != nil {
		app.closers = append(app.closers, closeLLM)
	}

	var repo resumes.Repo
	if app.DB != nil {
		repo = &resumes.PGRepo{DB: app.DB}
	} else {
		repo = resumes.NewMemoryRepo()
	}
	app.Service = &resumes.Service{
		Repo:        repo,
		Analyzer:    pipeline,
		Store:       app.Store,
		Events:      app.Events,
		Concurrency: cfg.AnalyzeConcurrency,
	}
	app.Handler = resumes.NewHandler(app.Service, cfg.MaxUploadBytes)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: app.Handler,
		Health:        health.NewService(pinger, pipeline.ReviewConfigured()),
		Limiter:       middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("bootstrap: close: %v", err)
		}
	}
	a.closers = nil
}

// BuildPipeline prepares the analysis pipeline alone, for callers without persistence.
// The returned func, when non-nil, releases the model client.
func BuildPipeline(ctx context.Context, cfg config.Config) (*analysis.Pipeline, func() error) {
	client, closer, err := buildLLM(ctx, cfg)
	if err != nil {
		log.Printf("bootstrap: llm provider %s unavailable, reviews use the no-credential fallback: %v", cfg.LLMProvider, err)
		client, closer = nil, nil
	}
	return analysis.New(review.New(llm.WithRetry(client), cfg.LLMTimeout)), closer
}

// buildLLM returns a nil client when the selected provider has no credential.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, func() error, error) {
	opts := llm.Options{
		Model:       cfg.LLMModel,
		Temperature: llm.DefaultTemperature,
		JSONOutput:  true,
	}
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil, nil
		}
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, opts)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil, nil
		}
		c, err := openai.NewClient(cfg.OpenAIAPIKey, opts, cfg.LLMTimeout)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case "vertex":
		if cfg.GoogleCloudProject == "" {
			return nil, nil, nil
		}
		c, err := vertex.NewClient(ctx, vertex.Config{
			ProjectID:       cfg.GoogleCloudProject,
			Location:        cfg.GoogleCloudLocation,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		}, opts)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case "none", "":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "none":
		return nil, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildEvents(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.EventsBackend {
	case "sqs":
		if strings.TrimSpace(cfg.SQSQueueURL) == "" {
			return nil, errors.New("EVENTS_BACKEND=sqs requires RS_SQS_QUEUE_URL")
		}
		return queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
	case "amqp":
		if strings.TrimSpace(cfg.RabbitMQURL) == "" {
			return nil, errors.New("EVENTS_BACKEND=amqp requires RABBITMQ_URL")
		}
		return queue.NewAMQPClient(cfg.RabbitMQURL, queue.DefaultExchange, queue.DefaultRoutingKey)
	default:
		return nil, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
