package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func longParagraph() string {
	return strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
}

func TestFullTextPrefersArticleRegion(t *testing.T) {
	t.Parallel()

	body := longParagraph()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<nav>menu menu menu</nav>
			<article>` + body + `</article>
			<footer>footer text</footer>
		</body></html>`))
	}))
	defer server.Close()

	extractor := NewExtractor(server.Client())
	text, err := extractor.FullText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FullText error: %v", err)
	}
	if !strings.Contains(text, "quick brown fox") {
		t.Fatalf("expected article text, got %q", text)
	}
	if strings.Contains(text, "menu") || strings.Contains(text, "footer") {
		t.Fatalf("boilerplate leaked into extraction: %q", text)
	}
}

func TestFullTextSkipsShortRegions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><article>too short</article></body></html>`))
	}))
	defer server.Close()

	extractor := NewExtractor(server.Client())
	text, err := extractor.FullText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FullText error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty extraction, got %q", text)
	}
}

func TestFullTextCapsLength(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("word ", 3000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><article>` + huge + `</article></body></html>`))
	}))
	defer server.Close()

	extractor := NewExtractor(server.Client())
	text, err := extractor.FullText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FullText error: %v", err)
	}
	if len(text) > maxContentLen {
		t.Fatalf("extracted text exceeds cap: %d", len(text))
	}
}

func TestFullTextNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	extractor := NewExtractor(server.Client())
	if _, err := extractor.FullText(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
