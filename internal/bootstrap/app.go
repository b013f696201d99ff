package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-scanner/internal/extract"
	"resume-scanner/internal/llm"
	"resume-scanner/internal/llm/openai"
	"resume-scanner/internal/resumes"
	"resume-scanner/internal/search"
	"resume-scanner/internal/shared/config"
	"resume-scanner/internal/shared/server"
	"resume-scanner/internal/shared/storage/db"
	"resume-scanner/internal/shared/storage/object"
	localstore "resume-scanner/internal/shared/storage/object/local"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.FileStore
	Cache         resumes.Repo
	Parser        *resumes.Parser
	ResumeHandler *resumes.Handler
	SearchHandler *search.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := localstore.New()
	if err := store.EnsureFolder(cfg.ResumeFolder); err != nil {
		return nil, fmt.Errorf("ensure resume folder: %w", err)
	}

	var cache resumes.Repo
	if sqlDB != nil {
		cache = &resumes.PGRepo{DB: sqlDB}
	} else {
		cache = resumes.NewMemoryRepo()
	}

	ai, err := buildAI(cfg)
	if err != nil {
		return nil, err
	}

	parser := &resumes.Parser{
		Extractor:   resumes.ExtractorFunc(extract.ExtractText),
		Files:       store,
		AI:          ai,
		Cache:       cache,
		Concurrency: cfg.ParseConcurrency,
	}

	app := &App{
		Config:        cfg,
		DB:            sqlDB,
		Store:         store,
		Cache:         cache,
		Parser:        parser,
		ResumeHandler: resumes.NewHandler(parser, store, cache, cfg.ResumeFolder),
		SearchHandler: search.NewHandler(parser, cfg.ResumeFolder),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		ResumeHandler: app.ResumeHandler,
		SearchHandler: app.SearchHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory parse cache")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory parse cache: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory parse cache: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

// buildAI returns the enrichment client. Without endpoint credentials the
// placeholder keeps parsing heuristics-only.
func buildAI(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.OpenAIEndpoint) == "" || strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		log.Printf("bootstrap: OPENAI_ENDPOINT/OPENAI_API_KEY not set; AI enrichment disabled")
		return llm.PlaceholderClient{}, nil
	}
	client, err := openai.NewClient(
		cfg.OpenAIEndpoint,
		cfg.OpenAIAPIKey,
		cfg.OpenAIDeployment,
		cfg.OpenAIAPIVersion,
		cfg.MaxPromptLength,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
