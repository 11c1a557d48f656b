package domain

import "time"

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"

	// ProviderDemo is the placeholder backend used when no credential is
	// configured; it produces canned text instead of failing outright.
	ProviderDemo Provider = "demo"
)

// Credential is an API key row managed by the admin surface.
type Credential struct {
	Provider  Provider
	Secret    string
	Active    bool
	CreatedAt time.Time
}

// ScrapedArticle is one feed entry stored for trend analysis. GUID is the
// dedup key: re-scraping the same item must not duplicate storage.
type ScrapedArticle struct {
	GUID          string
	Title         string
	Link          string
	Description   string
	FullContent   string
	Category      string
	Source        string
	Author        string
	Image         string
	Published     time.Time
	TrendingScore int
}

// SourceRef points a generated post back at one of its source articles.
type SourceRef struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// PostStatus enumerates publication states of a generated post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// GeneratedPost is the pipeline's end product. SEOScore is always within
// [0,100]; posts are never mutated by this subsystem after insert.
type GeneratedPost struct {
	Title           string
	Slug            string
	MetaDescription string
	Content         string
	Category        string
	Tags            []string
	ReadingTime     string
	TrendingTopic   string
	SourceArticles  []SourceRef
	SEOScore        int
	Status          PostStatus
	Published       time.Time
}
