package provider

import (
	"context"
	"fmt"

	"autoblog/internal/domain"
)

// Request carries everything a backend needs for one completion.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	APIKey      string
}

// Completer captures a single backend implementation (OpenAI, Claude,
// Gemini, demo). Implementations normalize to a single text blob out.
type Completer interface {
	Name() domain.Provider
	Complete(ctx context.Context, req Request) (string, error)
}

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	completers map[domain.Provider]Completer
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{completers: map[domain.Provider]Completer{}}
}

// Register adds or replaces a completer implementation.
func (r *Registry) Register(completer Completer) {
	if r.completers == nil {
		r.completers = map[domain.Provider]Completer{}
	}
	r.completers[completer.Name()] = completer
}

// Resolve returns a completer by name or an error if it is absent.
func (r *Registry) Resolve(name domain.Provider) (Completer, error) {
	if completer, ok := r.completers[name]; ok {
		return completer, nil
	}
	return nil, fmt.Errorf("provider %s is not registered", name)
}
