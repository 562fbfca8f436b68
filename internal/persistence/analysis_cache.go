package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/triage-service/internal/domain"
)

const analysisKeyPrefix = "triage:analysis:"

// AnalysisCache stores completed ticket analyses in Redis keyed by a hash of
// the ticket text, so identical tickets skip both external analysis calls.
type AnalysisCache struct {
	redis *Redis
	ttl   time.Duration
}

// NewAnalysisCache constructs a cache with the given TTL.
func NewAnalysisCache(r *Redis, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{redis: r, ttl: ttl}
}

func analysisCacheKey(ticket domain.SupportTicket) string {
	sum := sha256.Sum256([]byte(ticket.Subject + "\n" + ticket.Content))
	return analysisKeyPrefix + hex.EncodeToString(sum[:])
}

// Lookup returns the cached analysis for the ticket text, or (nil, nil) on a miss.
func (c *AnalysisCache) Lookup(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, nil
	}
	raw, err := c.redis.Client.Get(ctx, analysisCacheKey(ticket)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var analysis domain.TicketAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Store caches the analysis for the ticket text with the configured TTL.
func (c *AnalysisCache) Store(ctx context.Context, ticket domain.SupportTicket, analysis *domain.TicketAnalysis) error {
	if c == nil || c.redis == nil || c.redis.Client == nil || analysis == nil {
		return nil
	}
	raw, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return c.redis.Client.Set(ctx, analysisCacheKey(ticket), raw, c.ttl).Err()
}
