package usecase

import (
	"context"
	"log/slog"
	"time"

	"autoblog/internal/domain"
	"autoblog/internal/ports"
)

const trendLimit = 50

// TrendAnalyzer groups recently scraped articles by category, most
// trending first.
type TrendAnalyzer struct {
	store  ports.ArticleStore
	logger *slog.Logger
}

var _ ports.TrendSource = (*TrendAnalyzer)(nil)

// NewTrendAnalyzer wires the article store.
func NewTrendAnalyzer(store ports.ArticleStore, logger *slog.Logger) *TrendAnalyzer {
	return &TrendAnalyzer{store: store, logger: logger}
}

// LatestTrends returns per-category candidate sets from the window,
// ordered by trending score within each category. A query failure yields
// an empty map; callers must handle "no trends available".
func (t *TrendAnalyzer) LatestTrends(ctx context.Context, window time.Duration) map[string][]domain.ScrapedArticle {
	since := time.Now().Add(-window)

	articles, err := t.store.RecentArticles(ctx, since, trendLimit)
	if err != nil {
		t.logger.Warn("trend query failed", "error", err)
		return map[string][]domain.ScrapedArticle{}
	}

	trends := make(map[string][]domain.ScrapedArticle)
	for _, article := range articles {
		trends[article.Category] = append(trends[article.Category], article)
	}

	return trends
}
