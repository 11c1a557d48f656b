package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"autoblog/internal/config"
	"autoblog/internal/infrastructure/feed"
	"autoblog/internal/infrastructure/llm"
	"autoblog/internal/infrastructure/scheduler"
	"autoblog/internal/infrastructure/storage"
	"autoblog/internal/keycache"
	"autoblog/internal/logging"
	"autoblog/internal/provider"
	"autoblog/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration. The
// long-lived services (key cache, gateway) are constructed once here and
// passed by handle; there is no module-level mutable state.
type Application struct {
	cfg        config.Config
	db         *sql.DB
	repository *storage.Repository
	automation *usecase.Automation
	logger     *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repository := storage.NewRepository(db)
	keys := keycache.New(repository, cfg.Providers.KeyCacheTTL)

	registry := provider.NewRegistry()
	registry.Register(llm.NewOpenAIClient(cfg.Providers.OpenAI))
	registry.Register(llm.NewAnthropicClient(cfg.Providers.Claude))
	registry.Register(llm.NewGeminiClient(cfg.Providers.Gemini))
	registry.Register(llm.NewDemoCompleter())

	gateway := provider.NewGateway(registry, keys, cfg.Providers.SystemPrompt,
		baseLogger.With("component", "gateway"))

	fetcher := feed.NewFetcher(&http.Client{Timeout: 30 * time.Second})
	extractor := feed.NewExtractor(nil)

	scraper := usecase.NewScraper(fetcher, extractor, repository, cfg.Scraper,
		baseLogger.With("component", "scraper"))
	trends := usecase.NewTrendAnalyzer(repository,
		baseLogger.With("component", "trends"))
	generator := usecase.NewGenerator(trends, gateway, repository,
		cfg.Generation.TrendWindow, cfg.Generation.MaxTokens,
		baseLogger.With("component", "generator"))

	driver := scheduler.NewCronScheduler(cfg.Scheduler.Location())
	automation := usecase.NewAutomation(scraper, generator, trends, driver,
		cfg.Scheduler, baseLogger.With("component", "automation"))

	return &Application{
		cfg:        cfg,
		db:         db,
		repository: repository,
		automation: automation,
		logger:     baseLogger,
	}, nil
}

// Run prepares storage, performs one immediate pipeline pass, then hands
// control to the scheduler until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.repository.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}

	a.automation.RunNow(ctx)

	if err := a.automation.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.automation.Stop(stopCtx); err != nil {
		a.logger.Warn("scheduler stop timed out", "error", err)
	}

	return nil
}
