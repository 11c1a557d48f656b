package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"autoblog/internal/domain"
	"autoblog/internal/ports"
)

const (
	// a category needs this many recent trending articles before topic
	// selection even runs.
	minCategoryArticles = 3
	// and this many articles matching the selected topic to proceed.
	minTopicArticles = 2
	maxTopicArticles = 5

	minTopicWordLen = 4
)

// Generator turns per-category article clusters into published blog posts.
type Generator struct {
	trends    ports.TrendSource
	gateway   ports.ContentProvider
	store     ports.PostStore
	window    time.Duration
	maxTokens int
	logger    *slog.Logger
}

// NewGenerator wires the trend source, the provider gateway, and storage.
func NewGenerator(trends ports.TrendSource, gateway ports.ContentProvider, store ports.PostStore, window time.Duration, maxTokens int, logger *slog.Logger) *Generator {
	if window <= 0 {
		window = 24 * time.Hour
	}
	if maxTokens <= 0 {
		maxTokens = 3000
	}
	return &Generator{
		trends:    trends,
		gateway:   gateway,
		store:     store,
		window:    window,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// GenerateDaily produces one post per eligible category. A provider
// failure for one category is logged and the run continues; a category
// producing no post never fails the overall run.
func (g *Generator) GenerateDaily(ctx context.Context) []domain.GeneratedPost {
	trendsByCategory := g.trends.LatestTrends(ctx, g.window)

	categories := make([]string, 0, len(trendsByCategory))
	for category := range trendsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var posts []domain.GeneratedPost
	for _, category := range categories {
		articles := trendsByCategory[category]
		if len(articles) < minCategoryArticles {
			g.logger.Debug("category below article threshold", "category", category, "articles", len(articles))
			continue
		}

		topic := trendingTopic(articles)
		if topic == "" {
			continue
		}

		relevant := filterByTopic(articles, topic)
		if len(relevant) < minTopicArticles {
			g.logger.Debug("insufficient topic signal", "category", category, "topic", topic, "articles", len(relevant))
			continue
		}

		post, err := g.generatePost(ctx, relevant, category, topic)
		if err != nil {
			g.logger.Error("post generation failed", "category", category, "topic", topic, "error", err)
			continue
		}
		posts = append(posts, post)
	}

	g.logger.Info("content generation finished", "posts", len(posts))
	return posts
}

func (g *Generator) generatePost(ctx context.Context, sources []domain.ScrapedArticle, category, topic string) (domain.GeneratedPost, error) {
	prompt := buildPrompt(sources, category, topic)

	text, err := g.gateway.Generate(ctx, prompt, ports.GenerateOptions{
		Provider:  g.pickProvider(ctx),
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return domain.GeneratedPost{}, fmt.Errorf("generate %s/%s: %w", category, topic, err)
	}

	post := parseResponse(text, category, topic)
	post.SourceArticles = sourceRefs(sources)
	post.Status = domain.StatusPublished
	post.Published = time.Now().UTC()

	if err := g.store.SavePost(ctx, post); err != nil {
		return domain.GeneratedPost{}, fmt.Errorf("save post %q: %w", post.Title, err)
	}

	g.logger.Info("post generated", "title", post.Title, "category", category, "seo_score", post.SEOScore)
	return post, nil
}

// pickProvider prefers the first real backend; when only demo is listed,
// demo it is.
func (g *Generator) pickProvider(ctx context.Context) domain.Provider {
	available := g.gateway.Available(ctx)
	for _, p := range available {
		if p != domain.ProviderDemo {
			return p
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return domain.ProviderDemo
}

// trendingTopic picks the most frequent title word longer than four
// characters across the cluster; on a tie the word encountered first wins.
func trendingTopic(articles []domain.ScrapedArticle) string {
	counts := make(map[string]int)
	var order []string

	for _, article := range articles {
		for _, word := range strings.Fields(strings.ToLower(article.Title)) {
			if len(word) <= minTopicWordLen {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	topic, best := "", 0
	for _, word := range order {
		if counts[word] > best {
			topic, best = word, counts[word]
		}
	}
	return topic
}

func filterByTopic(articles []domain.ScrapedArticle, topic string) []domain.ScrapedArticle {
	var relevant []domain.ScrapedArticle
	for _, article := range articles {
		if strings.Contains(strings.ToLower(article.Title), topic) {
			relevant = append(relevant, article)
			if len(relevant) == maxTopicArticles {
				break
			}
		}
	}
	return relevant
}

func sourceRefs(articles []domain.ScrapedArticle) []domain.SourceRef {
	refs := make([]domain.SourceRef, 0, len(articles))
	for _, article := range articles {
		refs = append(refs, domain.SourceRef{
			Title:  article.Title,
			URL:    article.Link,
			Source: article.Source,
		})
	}
	return refs
}

func buildPrompt(sources []domain.ScrapedArticle, category, topic string) string {
	var articles strings.Builder
	for _, article := range sources {
		fmt.Fprintf(&articles, "Title: %s\nSource: %s\nSummary: %s\n---\n",
			article.Title, article.Source, article.Description)
	}

	return fmt.Sprintf(`Based on these recent %s articles about "%s", write a comprehensive, engaging blog post that:

1. Has a compelling, SEO-friendly title
2. Includes a meta description (150-160 characters)
3. Uses a conversational, human tone
4. Provides unique insights and analysis
5. Is 1200-1500 words long
6. Includes relevant keywords naturally
7. Has clear sections with H2/H3 headings
8. Ends with a thought-provoking conclusion

Source Articles:
%s
Format your response as:
TITLE: [Your SEO-optimized title]
META_DESCRIPTION: [Your meta description]
TAGS: [5-7 relevant tags separated by commas]
READING_TIME: [estimated reading time]
CONTENT: [Your full blog post content with proper headings and structure]

Focus on what this means for readers, why it matters, and what trends to watch. Make it engaging and informative while maintaining credibility.`,
		category, topic, articles.String())
}

// parseResponse scans the reply for the five labeled fields. Missing
// fields fall back to generated defaults; without a CONTENT marker the
// entire reply becomes the body, which keeps demo output usable.
func parseResponse(text, category, topic string) domain.GeneratedPost {
	lines := strings.Split(text, "\n")

	var title, metaDescription, rawTags, readingTime string
	contentStart := 0

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "META_DESCRIPTION:"):
			metaDescription = strings.TrimSpace(strings.TrimPrefix(line, "META_DESCRIPTION:"))
		case strings.HasPrefix(line, "TAGS:"):
			rawTags = strings.TrimSpace(strings.TrimPrefix(line, "TAGS:"))
		case strings.HasPrefix(line, "READING_TIME:"):
			readingTime = strings.TrimSpace(strings.TrimPrefix(line, "READING_TIME:"))
		case strings.HasPrefix(line, "CONTENT:"):
			contentStart = i + 1
		}
		if contentStart > 0 {
			break
		}
	}

	content := strings.TrimSpace(strings.Join(lines[contentStart:], "\n"))

	if title == "" {
		title = fmt.Sprintf("The Latest in %s: %s", category, topic)
	}
	if metaDescription == "" {
		metaDescription = fmt.Sprintf("Discover the latest trends and insights in %s. Expert analysis and what it means for the future.", category)
	}
	if readingTime == "" {
		readingTime = "5 min read"
	}

	tags := []string{}
	if rawTags != "" {
		for _, tag := range strings.Split(rawTags, ",") {
			tags = append(tags, strings.TrimSpace(tag))
		}
	}

	return domain.GeneratedPost{
		Title:           title,
		Slug:            Slugify(title),
		MetaDescription: metaDescription,
		Content:         content,
		Category:        category,
		Tags:            tags,
		ReadingTime:     readingTime,
		TrendingTopic:   topic,
		SEOScore:        seoScore(title, content, metaDescription),
	}
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a title. It is deterministic and
// idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// seoScore is an additive rubric; each satisfied criterion contributes a
// fixed number of points and the result is clamped to [0,100].
func seoScore(title, content, metaDescription string) int {
	score := 0

	if l := len(title); l >= 30 && l <= 60 {
		score += 20
	}
	if l := len(metaDescription); l >= 120 && l <= 160 {
		score += 15
	}
	if len(content) >= 1000 {
		score += 20
	}
	if strings.Contains(content, "##") || strings.Contains(content, "<h2>") {
		score += 15
	}

	words := len(strings.Fields(content))
	if words >= 300 {
		score += 15
	}

	sentences := 0
	for _, s := range sentenceSplit.Split(content, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences > 0 {
		avg := float64(words) / float64(sentences)
		if avg >= 15 && avg <= 25 {
			score += 15
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
