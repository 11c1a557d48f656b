package llm

import (
	"context"
	"fmt"

	"autoblog/internal/domain"
	"autoblog/internal/provider"
)

// DemoCompleter produces canned explanatory text when no real credential
// is configured, so a fresh install still publishes something.
type DemoCompleter struct{}

var _ provider.Completer = (*DemoCompleter)(nil)

// NewDemoCompleter needs no configuration.
func NewDemoCompleter() *DemoCompleter {
	return &DemoCompleter{}
}

// Name identifies the backend inside the registry.
func (d *DemoCompleter) Name() domain.Provider {
	return domain.ProviderDemo
}

// Complete returns the placeholder post body. The text carries no labeled
// fields, so the response parser fills every metadata field from its
// defaults and uses the whole blob as the body.
func (d *DemoCompleter) Complete(ctx context.Context, req provider.Request) (string, error) {
	return fmt.Sprintf(`# Demo AI Content

This is a demonstration of how AI-generated content would appear. In a real
deployment this text is replaced with model output for the prompt below.

**Prompt**: %s

## Key Features

- SEO-optimized content structure
- Engaging headlines and subheadings
- Professional writing tone
- Relevant keywords integration

## Next Steps

1. Add provider API keys through the admin surface
2. Test content generation with real providers
3. Monitor performance and SEO metrics

*This demo content was generated to show the expected format and structure.*`, req.User), nil
}
