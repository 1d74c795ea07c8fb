package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry, rate limit and logging
// middleware. The result also implements ImageEditor; providers without
// image support answer ErrImageUnsupported.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logging.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Wrap(base, cfg, eventRepo, log), nil
}

// Wrap applies the standard middleware chain:
// caller → retry → rate limit → logging → base.
func Wrap(base Provider, cfg Config, eventRepo store.EventRepo, log *logging.Logger) Provider {
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	limited := WithRateLimit(logged, cfg.RequestsPerMinute)
	return WithRetry(limited, cfg.Retry)
}
