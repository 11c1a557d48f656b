package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autoblog/internal/config"
	"autoblog/internal/provider"
)

func TestOpenAICompleteParsesChoice(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"TITLE: Hello"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(config.ModelConfig{Endpoint: server.URL, Model: "gpt-4"})
	text, err := client.Complete(context.Background(), provider.Request{
		System:      "system",
		User:        "user prompt",
		MaxTokens:   3000,
		Temperature: 0.7,
		APIKey:      "sk-test",
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if text != "TITLE: Hello" {
		t.Fatalf("unexpected text: %q", text)
	}
	if got["model"] != "gpt-4" {
		t.Fatalf("unexpected model in request: %v", got["model"])
	}
	if got["max_tokens"] != float64(3000) {
		t.Fatalf("unexpected max_tokens: %v", got["max_tokens"])
	}
}

func TestOpenAICompleteSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(config.ModelConfig{Endpoint: server.URL, Model: "gpt-4"})
	_, err := client.Complete(context.Background(), provider.Request{APIKey: "sk-bad"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("error should carry the API message, got %v", err)
	}
}

func TestAnthropicCompleteParsesContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("x-api-key"); key != "ck-test" {
			t.Errorf("unexpected api key header: %s", key)
		}
		if v := r.Header.Get("anthropic-version"); v == "" {
			t.Error("missing anthropic-version header")
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"claude says hi"}]}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(config.ModelConfig{Endpoint: server.URL, Model: "claude-3-sonnet-20240229"})
	text, err := client.Complete(context.Background(), provider.Request{
		User:   "prompt",
		APIKey: "ck-test",
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if text != "claude says hi" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestGeminiCompleteParsesCandidate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if key := r.URL.Query().Get("key"); key != "gk-test" {
			t.Errorf("unexpected key param: %s", key)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"gemini says hi"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(config.ModelConfig{Endpoint: server.URL, Model: "gemini-1.5-flash"})
	text, err := client.Complete(context.Background(), provider.Request{
		User:   "prompt",
		APIKey: "gk-test",
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if text != "gemini says hi" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDemoCompleteEmbedsPrompt(t *testing.T) {
	t.Parallel()

	demo := NewDemoCompleter()
	text, err := demo.Complete(context.Background(), provider.Request{User: "write about robots"})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if !strings.Contains(text, "write about robots") {
		t.Fatal("demo text should embed the prompt")
	}
	if strings.Contains(text, "TITLE:") {
		t.Fatal("demo text must not carry labeled fields")
	}
}
