package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"autoblog/internal/config"
	"autoblog/internal/domain"
	"autoblog/internal/infrastructure/feed"
	"autoblog/internal/ports"
)

// Scraper walks the configured feed catalog and stores fresh articles.
type Scraper struct {
	fetcher        *feed.Fetcher
	extractor      ports.Extractor
	store          ports.ArticleStore
	categories     []config.CategoryFeeds
	keywords       []string
	entriesPerFeed int
	logger         *slog.Logger
}

// NewScraper wires the feed fetcher, the full-text extractor, and storage.
func NewScraper(fetcher *feed.Fetcher, extractor ports.Extractor, store ports.ArticleStore, cfg config.ScraperConfig, logger *slog.Logger) *Scraper {
	entries := cfg.EntriesPerFeed
	if entries <= 0 {
		entries = 5
	}
	return &Scraper{
		fetcher:        fetcher,
		extractor:      extractor,
		store:          store,
		categories:     cfg.Categories,
		keywords:       cfg.TrendingKeywords,
		entriesPerFeed: entries,
		logger:         logger,
	}
}

// ScrapeAll fetches every configured feed, builds scored article records,
// deduplicates the batch by guid, and upserts them. One failing feed or
// article never aborts the batch; the return value counts newly stored
// rows.
func (s *Scraper) ScrapeAll(ctx context.Context) (int, error) {
	var batch []domain.ScrapedArticle

	for _, category := range s.categories {
		s.logger.Debug("scraping category", "category", category.Name, "feeds", len(category.URLs))

		for _, feedURL := range category.URLs {
			parsed, err := s.fetcher.Fetch(ctx, feedURL)
			if err != nil {
				s.logger.Warn("feed skipped", "url", feedURL, "error", err)
				continue
			}

			items := parsed.Items
			if len(items) > s.entriesPerFeed {
				items = items[:s.entriesPerFeed]
			}

			for _, item := range items {
				article := s.buildArticle(ctx, item, category.Name, parsed.Title)
				batch = append(batch, article)
			}
		}
	}

	unique := dedupByGUID(batch)

	inserted, err := s.store.UpsertArticles(ctx, unique)
	if err != nil {
		// Best-effort persistence; the scrape itself is complete.
		s.logger.Error("article upsert incomplete", "stored", inserted, "error", err)
	}

	s.logger.Info("scrape finished", "scraped", len(batch), "unique", len(unique), "stored", inserted)
	return inserted, nil
}

func (s *Scraper) buildArticle(ctx context.Context, item *gofeed.Item, category, feedTitle string) domain.ScrapedArticle {
	guid := item.GUID
	if guid == "" {
		guid = item.Link
	}

	published := time.Now().UTC()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}

	article := domain.ScrapedArticle{
		GUID:          guid,
		Title:         item.Title,
		Link:          item.Link,
		Description:   item.Description,
		Category:      category,
		Source:        feedTitle,
		Author:        itemAuthor(item),
		Image:         itemImage(item),
		Published:     published,
		TrendingScore: s.trendingScore(item.Title, item.Description),
	}

	if s.extractor != nil && item.Link != "" {
		text, err := s.extractor.FullText(ctx, item.Link)
		if err != nil {
			s.logger.Debug("full-text extraction skipped", "link", item.Link, "error", err)
		} else {
			article.FullContent = text
		}
	}

	return article
}

// trendingScore is 10 points per configured keyword found in the title or
// description, plus a 0-5 jitter that breaks exact ties between articles
// matching the same keywords.
func (s *Scraper) trendingScore(title, description string) int {
	text := strings.ToLower(title + " " + description)

	score := 0
	for _, keyword := range s.keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += 10
		}
	}

	return score + rand.IntN(6)
}

func dedupByGUID(articles []domain.ScrapedArticle) []domain.ScrapedArticle {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.ScrapedArticle, 0, len(articles))
	for _, article := range articles {
		if _, ok := seen[article.GUID]; ok {
			continue
		}
		seen[article.GUID] = struct{}{}
		unique = append(unique, article)
	}
	return unique
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func itemImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			if entries, ok := media[name]; ok && len(entries) > 0 {
				if url := entries[0].Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
