package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"autoblog/internal/config"
	"autoblog/internal/ports"
)

const weeklyWindow = 7 * 24 * time.Hour

// Automation wires the pipeline stages onto their cron cadences. Each
// timer's handler absorbs its own failures, so one broken stage never
// disables another.
type Automation struct {
	scraper   *Scraper
	generator *Generator
	trends    ports.TrendSource
	driver    ports.CronScheduler
	cfg       config.SchedulerConfig
	logger    *slog.Logger
}

// NewAutomation builds the recurring-job coordinator.
func NewAutomation(scraper *Scraper, generator *Generator, trends ports.TrendSource, driver ports.CronScheduler, cfg config.SchedulerConfig, logger *slog.Logger) *Automation {
	return &Automation{
		scraper:   scraper,
		generator: generator,
		trends:    trends,
		driver:    driver,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the three timers and begins scheduling.
func (a *Automation) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"scrape", a.cfg.ScrapeCron, func() { a.runScrape(ctx) }},
		{"generate", a.cfg.GenerateCron, func() { a.runGenerate(ctx) }},
		{"weekly-analysis", a.cfg.WeeklyCron, func() { a.runWeeklyAnalysis(ctx) }},
	}

	for _, job := range jobs {
		if err := a.driver.Schedule(job.spec, job.run); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}

	a.driver.Start()
	a.logger.Info("scheduler started",
		"scrape", a.cfg.ScrapeCron,
		"generate", a.cfg.GenerateCron,
		"weekly", a.cfg.WeeklyCron)
	return nil
}

// Stop tears down the underlying scheduler.
func (a *Automation) Stop(ctx context.Context) error {
	return a.driver.Stop(ctx)
}

// RunNow executes scrape then generate, sequentially and synchronously.
// Stage errors are logged, not re-raised.
func (a *Automation) RunNow(ctx context.Context) {
	a.logger.Info("running immediate content update")
	a.runScrape(ctx)
	a.runGenerate(ctx)
	a.logger.Info("immediate content update finished")
}

func (a *Automation) runScrape(ctx context.Context) {
	count, err := a.scraper.ScrapeAll(ctx)
	if err != nil {
		a.logger.Error("scheduled scrape failed", "error", err)
		return
	}
	a.logger.Info("scheduled scrape finished", "stored", count)
}

func (a *Automation) runGenerate(ctx context.Context) {
	posts := a.generator.GenerateDaily(ctx)
	a.logger.Info("scheduled generation finished", "posts", len(posts))
}

// runWeeklyAnalysis summarizes the past week's trend volume per category.
func (a *Automation) runWeeklyAnalysis(ctx context.Context) {
	trends := a.trends.LatestTrends(ctx, weeklyWindow)
	for category, articles := range trends {
		a.logger.Info("weekly trend volume", "category", category, "articles", len(articles))
	}
	a.logger.Info("weekly trend analysis finished", "categories", len(trends))
}
