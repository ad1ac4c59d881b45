package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config выбор провайдера и его параметры
type Config struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	MaxRetries   uint64
}

// New создаёт клиент выбранного провайдера, обёрнутый в ретраи
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Completer, error) {
	var (
		base Completer
		err  error
	)

	switch cfg.Provider {
	case ProviderGemini, "":
		base, err = NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	case ProviderOpenAI:
		base, err = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxRetries == 0 {
		return base, nil
	}

	return NewRetryingCompleter(base, cfg.MaxRetries, logger), nil
}
