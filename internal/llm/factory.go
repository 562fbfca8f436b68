package llm

import (
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
)

// NewProvider selects a provider from configuration. Missing credentials fall
// back to the mock provider so the service still starts.
func NewProvider(cfg config.LLMConfig, logger *zap.Logger) Provider {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY not set; using mock LLM provider")
			return NewMockProvider()
		}
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			logger.Warn("ANTHROPIC_API_KEY not set; using mock LLM provider")
			return NewMockProvider()
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.MaxTokens)
	case "mock":
		return NewMockProvider()
	default:
		logger.Warn("unknown LLM provider; using mock", zap.String("provider", cfg.Provider))
		return NewMockProvider()
	}
}
