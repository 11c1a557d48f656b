package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"autoblog/internal/domain"
	"autoblog/internal/keycache"
	"autoblog/internal/ports"
)

// ErrProviderUnavailable signals a backend without a usable credential.
var ErrProviderUnavailable = errors.New("provider unavailable")

// defaultProvider receives the single fallback attempt when another
// backend fails; the chain never grows past two round-trips.
const defaultProvider = domain.ProviderOpenAI

// listing order for Available; demo is appended only when nothing else is.
var knownProviders = []domain.Provider{
	domain.ProviderOpenAI,
	domain.ProviderClaude,
	domain.ProviderGemini,
}

// Gateway fronts the interchangeable LLM backends behind one generate
// contract, resolving credentials through the key cache.
type Gateway struct {
	registry     *Registry
	keys         *keycache.Cache
	systemPrompt string
	logger       *slog.Logger
}

var _ ports.ContentProvider = (*Gateway)(nil)

// NewGateway wires the completer registry with the credential cache.
func NewGateway(registry *Registry, keys *keycache.Cache, systemPrompt string, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry:     registry,
		keys:         keys,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// Generate invokes the requested backend; on failure of a non-default
// backend it falls back exactly once to the default one.
func (g *Gateway) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	target := opts.Provider
	if target == "" {
		target = defaultProvider
	}

	text, err := g.complete(ctx, target, prompt, opts.MaxTokens)
	if err == nil {
		return text, nil
	}
	if target == defaultProvider {
		return "", err
	}

	g.warn("provider failed, falling back", "provider", target, "fallback", defaultProvider, "error", err)

	text, fbErr := g.complete(ctx, defaultProvider, prompt, opts.MaxTokens)
	if fbErr != nil {
		return "", fmt.Errorf("%s failed (%v); fallback %s: %w", target, err, defaultProvider, fbErr)
	}
	return text, nil
}

// Available lists providers with a non-empty secret, in fixed order; when
// none is configured it returns just the demo provider so the pipeline can
// still produce placeholder output.
func (g *Gateway) Available(ctx context.Context) []domain.Provider {
	keys, err := g.keys.Keys(ctx)
	if err != nil {
		g.warn("listing providers without credentials", "error", err)
		return []domain.Provider{domain.ProviderDemo}
	}

	available := make([]domain.Provider, 0, len(knownProviders))
	for _, p := range knownProviders {
		if keys[p] != "" {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return []domain.Provider{domain.ProviderDemo}
	}
	return available
}

func (g *Gateway) complete(ctx context.Context, target domain.Provider, prompt string, maxTokens int) (string, error) {
	completer, err := g.registry.Resolve(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	req := Request{
		System:      g.systemPrompt,
		User:        prompt,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}

	if target != domain.ProviderDemo {
		secret, ok, keyErr := g.keys.Key(ctx, target)
		if keyErr != nil {
			return "", keyErr
		}
		if !ok || secret == "" {
			return "", fmt.Errorf("%w: no active credential for %s", ErrProviderUnavailable, target)
		}
		req.APIKey = secret
	}

	return completer.Complete(ctx, req)
}

func (g *Gateway) warn(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
