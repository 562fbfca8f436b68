// Package llm calls the external language model that classifies tickets and
// drafts responses. Providers share prompt construction and reply parsing;
// only the transport differs.
package llm

import (
	"context"

	"github.com/spec-kit/triage-service/internal/domain"
)

// ResponseInput carries everything the response-generation call needs.
type ResponseInput struct {
	TicketID  string
	Analysis  domain.TicketAnalysis
	Templates map[string]string
	Context   map[string]string
}

// Provider performs the two model calls of the triage pipeline. Analyze
// returns the classification with Sentiment left at zero; the orchestrator
// merges the sentiment score in afterwards.
type Provider interface {
	Analyze(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error)
	Respond(ctx context.Context, in ResponseInput) (*domain.ResponseSuggestion, error)
	Name() string
}
