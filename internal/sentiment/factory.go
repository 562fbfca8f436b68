package sentiment

import (
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
)

// NewScorer selects a scorer from configuration. Without an API key every
// ticket scores neutral.
func NewScorer(cfg config.SentimentConfig, logger *zap.Logger) Scorer {
	if cfg.APIKey == "" {
		logger.Warn("HF_API_KEY not set; sentiment scoring disabled")
		return Fixed{Value: 0}
	}
	return NewHuggingFaceScorer(cfg)
}
