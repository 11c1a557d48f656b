package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"autoblog/internal/ports"
)

const (
	extractTimeout = 10 * time.Second
	minContentLen  = 200
	maxContentLen  = 5000
)

// content-region candidates, most specific first; the first whose text
// clears the minimum length wins.
var contentSelectors = []string{
	"article",
	".post-content",
	".entry-content",
	".article-body",
	".content",
	"main",
	".story-body",
}

// Extractor fetches a linked page and pulls out its readable article text.
type Extractor struct {
	client  *http.Client
	limiter *rate.Limiter
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client with the bounded fetch timeout and a
// politeness limiter so one scrape run cannot hammer source sites.
func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: extractTimeout}
	}
	return &Extractor{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// FullText fetches the page and applies the content-region heuristic. The
// result is capped; an empty string means no region cleared the threshold.
func (e *Extractor) FullText(ctx context.Context, pageURL string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; autoblog/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse article page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, .advertisement, .ads").Remove()

	for _, selector := range contentSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len(text) > minContentLen {
			if len(text) > maxContentLen {
				text = text[:maxContentLen]
			}
			return text, nil
		}
	}

	return "", nil
}
