package ports

import (
	"context"
	"time"

	"autoblog/internal/domain"
)

// CredentialStore reads provider API keys.
type CredentialStore interface {
	ActiveCredentials(ctx context.Context) ([]domain.Credential, error)
}

// CredentialAdmin covers the write side of the credential lifecycle,
// driven by the external admin surface.
type CredentialAdmin interface {
	InsertCredential(ctx context.Context, cred domain.Credential) error
	DeactivateCredential(ctx context.Context, provider domain.Provider) error
	DeleteCredential(ctx context.Context, provider domain.Provider) error
}

// ArticleStore persists scraped feed entries and serves recent ones.
type ArticleStore interface {
	// UpsertArticles inserts with guid as the conflict key, ignoring
	// duplicates; it returns the number of newly stored rows.
	UpsertArticles(ctx context.Context, articles []domain.ScrapedArticle) (int, error)
	// RecentArticles returns articles published after since, most
	// trending first, capped at limit.
	RecentArticles(ctx context.Context, since time.Time, limit uint64) ([]domain.ScrapedArticle, error)
}

// PostStore persists generated blog posts.
type PostStore interface {
	SavePost(ctx context.Context, post domain.GeneratedPost) error
}

// GenerateOptions selects the backend and token budget for one call.
type GenerateOptions struct {
	Provider  domain.Provider
	MaxTokens int
}

// ContentProvider is the normalized text-in/text-out LLM contract.
type ContentProvider interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	// Available lists providers with a usable credential, or [demo]
	// when there are none.
	Available(ctx context.Context) []domain.Provider
}

// TrendSource surfaces per-category candidate articles, most trending
// first. Implementations absorb query failures and return an empty map.
type TrendSource interface {
	LatestTrends(ctx context.Context, window time.Duration) map[string][]domain.ScrapedArticle
}

// Extractor pulls readable article text out of a linked page.
type Extractor interface {
	FullText(ctx context.Context, url string) (string, error)
}

// CronScheduler drives recurring jobs by cron expression.
type CronScheduler interface {
	Schedule(spec string, job func()) error
	Start()
	Stop(ctx context.Context) error
}
