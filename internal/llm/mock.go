package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/spec-kit/triage-service/internal/domain"
)

// MockProvider produces deterministic triage output without network calls.
// It lets the service run end to end when no API key is configured.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

var mockCategories = []domain.TicketCategory{
	domain.CategoryTechnical,
	domain.CategoryBilling,
	domain.CategoryFeature,
	domain.CategoryAccess,
}

// Analyze derives a stable classification from the ticket content hash, with
// a couple of keyword heuristics so obvious tickets look plausible.
func (p *MockProvider) Analyze(ctx context.Context, ticket domain.SupportTicket) (*domain.TicketAnalysis, error) {
	h := hashString(ticket.Subject + "\n" + ticket.Content)
	lower := strings.ToLower(ticket.Subject + " " + ticket.Content)

	category := mockCategories[h%uint64(len(mockCategories))]
	switch {
	case strings.Contains(lower, "invoice") || strings.Contains(lower, "billing"):
		category = domain.CategoryBilling
	case strings.Contains(lower, "access") || strings.Contains(lower, "login") || strings.Contains(lower, "403"):
		category = domain.CategoryAccess
	case strings.Contains(lower, "feature") || strings.Contains(lower, "suggestion"):
		category = domain.CategoryFeature
	}

	priority := domain.TicketPriority(h%4) + 1
	urgency := []string{}
	for _, word := range []string{"asap", "urgent", "immediately", "critical"} {
		if strings.Contains(lower, word) {
			urgency = append(urgency, word)
			priority = domain.PriorityUrgent
		}
	}

	return &domain.TicketAnalysis{
		Category:              category,
		Priority:              priority,
		KeyPoints:             []string{fmt.Sprintf("Ticket %s concerns a %s issue", ticket.ID, category)},
		RequiredExpertise:     []string{string(category) + " support"},
		UrgencyIndicators:     urgency,
		BusinessImpact:        "undetermined (mock analysis)",
		SuggestedResponseType: string(category) + "_issue",
	}, nil
}

// Respond drafts a canned reply keyed off the analysis.
func (p *MockProvider) Respond(ctx context.Context, in ResponseInput) (*domain.ResponseSuggestion, error) {
	return &domain.ResponseSuggestion{
		ResponseText: fmt.Sprintf(
			"Hello,\n\nThank you for contacting support about your %s issue. We have classified it as %s priority and our team is looking into it.\n\nBest regards,\nSupport Team",
			in.Analysis.Category, in.Analysis.Priority),
		ConfidenceScore:  0.5,
		RequiresApproval: in.Analysis.Priority >= domain.PriorityHigh,
		SuggestedActions: []string{"review drafted response", "confirm classification"},
	}, nil
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
