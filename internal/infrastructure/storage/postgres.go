package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"autoblog/internal/domain"
	"autoblog/internal/ports"
)

// Repository persists the pipeline's three tables in Postgres.
type Repository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var (
	_ ports.CredentialStore = (*Repository)(nil)
	_ ports.CredentialAdmin = (*Repository)(nil)
	_ ports.ArticleStore    = (*Repository)(nil)
	_ ports.PostStore       = (*Repository)(nil)
)

// NewRepository wires a sql.DB implementation.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the pipeline tables when they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			id SERIAL PRIMARY KEY,
			provider TEXT NOT NULL,
			secret TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS scraped_articles (
			guid TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			link TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			full_content TEXT,
			category TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			published TIMESTAMPTZ NOT NULL,
			trending_score INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS generated_posts (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			meta_description TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			reading_time TEXT NOT NULL DEFAULT '',
			trending_topic TEXT NOT NULL DEFAULT '',
			source_articles JSONB NOT NULL DEFAULT '[]',
			seo_score INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			published TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scraped_articles_published
			ON scraped_articles (published DESC, trending_score DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ActiveCredentials returns all usable credential rows.
func (r *Repository) ActiveCredentials(ctx context.Context) ([]domain.Credential, error) {
	query, args, err := r.builder.
		Select("provider", "secret", "created_at").
		From("credentials").
		Where(sq.Eq{"active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build credentials query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var creds []domain.Credential
	for rows.Next() {
		cred := domain.Credential{Active: true}
		var provider string
		if err := rows.Scan(&provider, &cred.Secret, &cred.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		cred.Provider = domain.Provider(provider)
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("credentials iteration: %w", err)
	}

	return creds, nil
}

// InsertCredential stores a new key row; multiple rows per provider are
// allowed, readers filter on active.
func (r *Repository) InsertCredential(ctx context.Context, cred domain.Credential) error {
	query, args, err := r.builder.
		Insert("credentials").
		Columns("provider", "secret", "active").
		Values(string(cred.Provider), cred.Secret, cred.Active).
		ToSql()
	if err != nil {
		return fmt.Errorf("build credential insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// DeactivateCredential soft-deletes every key for the provider.
func (r *Repository) DeactivateCredential(ctx context.Context, provider domain.Provider) error {
	query, args, err := r.builder.
		Update("credentials").
		Set("active", false).
		Where(sq.Eq{"provider": string(provider)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build credential update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deactivate credential: %w", err)
	}
	return nil
}

// DeleteCredential hard-deletes every key for the provider.
func (r *Repository) DeleteCredential(ctx context.Context, provider domain.Provider) error {
	query, args, err := r.builder.
		Delete("credentials").
		Where(sq.Eq{"provider": string(provider)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build credential delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// UpsertArticles inserts articles with guid as the conflict key. A guid
// already in storage is left untouched (first write wins); the return
// value counts rows that were actually new.
func (r *Repository) UpsertArticles(ctx context.Context, articles []domain.ScrapedArticle) (int, error) {
	inserted := 0
	for _, article := range articles {
		query, args, err := r.builder.
			Insert("scraped_articles").
			Columns("guid", "title", "link", "description", "full_content",
				"category", "source", "author", "image", "published", "trending_score").
			Values(article.GUID, article.Title, article.Link, article.Description,
				nullable(article.FullContent), article.Category, article.Source,
				article.Author, article.Image, article.Published, article.TrendingScore).
			Suffix("ON CONFLICT (guid) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build article upsert: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("upsert article %s: %w", article.GUID, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

// RecentArticles returns articles published after since, most trending
// first, capped at limit.
func (r *Repository) RecentArticles(ctx context.Context, since time.Time, limit uint64) ([]domain.ScrapedArticle, error) {
	query, args, err := r.builder.
		Select("guid", "title", "link", "description", "COALESCE(full_content, '')",
			"category", "source", "author", "image", "published", "trending_score").
		From("scraped_articles").
		Where(sq.GtOrEq{"published": since}).
		OrderBy("trending_score DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent articles query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.ScrapedArticle
	for rows.Next() {
		var article domain.ScrapedArticle
		if err := rows.Scan(&article.GUID, &article.Title, &article.Link,
			&article.Description, &article.FullContent, &article.Category,
			&article.Source, &article.Author, &article.Image,
			&article.Published, &article.TrendingScore); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("articles iteration: %w", err)
	}

	return articles, nil
}

// SavePost inserts the assembled post. Posts are never mutated by this
// subsystem after insert.
func (r *Repository) SavePost(ctx context.Context, post domain.GeneratedPost) error {
	sources, err := json.Marshal(post.SourceArticles)
	if err != nil {
		return fmt.Errorf("marshal source articles: %w", err)
	}

	query, args, err := r.builder.
		Insert("generated_posts").
		Columns("title", "slug", "meta_description", "content", "category",
			"tags", "reading_time", "trending_topic", "source_articles",
			"seo_score", "status", "published").
		Values(post.Title, post.Slug, post.MetaDescription, post.Content,
			post.Category, pq.Array(post.Tags), post.ReadingTime,
			post.TrendingTopic, string(sources), post.SEOScore,
			string(post.Status), post.Published).
		ToSql()
	if err != nil {
		return fmt.Errorf("build post insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
