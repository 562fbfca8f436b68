package llm

import (
	"context"
	"testing"

	"github.com/spec-kit/triage-service/internal/domain"
)

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider()
	ticket := domain.SupportTicket{
		ID:      "TKT-001",
		Subject: "Server keeps restarting",
		Content: "Our instance reboots every hour.",
	}

	first, err := p.Analyze(context.Background(), ticket)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := p.Analyze(context.Background(), ticket)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if first.Category != second.Category || first.Priority != second.Priority {
		t.Error("mock analysis must be deterministic for identical input")
	}
	if _, ok := domain.ParseCategory(string(first.Category)); !ok {
		t.Errorf("mock produced invalid category %q", first.Category)
	}
	if !first.Priority.Valid() {
		t.Errorf("mock produced invalid priority %d", first.Priority)
	}
}

func TestMockProviderKeywordHeuristics(t *testing.T) {
	p := NewMockProvider()
	analysis, err := p.Analyze(context.Background(), domain.SupportTicket{
		ID:      "TKT-002",
		Subject: "Cannot login, 403 on dashboard",
		Content: "Need this fixed ASAP, payroll is due.",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Category != domain.CategoryAccess {
		t.Errorf("category = %q, want access for a 403/login ticket", analysis.Category)
	}
	if analysis.Priority != domain.PriorityUrgent {
		t.Errorf("priority = %d, want urgent when ASAP present", analysis.Priority)
	}
	if len(analysis.UrgencyIndicators) == 0 {
		t.Error("urgency indicators should capture the ASAP phrase")
	}
}

func TestMockProviderRespond(t *testing.T) {
	p := NewMockProvider()
	resp, err := p.Respond(context.Background(), ResponseInput{
		Analysis: domain.TicketAnalysis{
			Category: domain.CategoryTechnical,
			Priority: domain.PriorityHigh,
		},
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.ResponseText == "" {
		t.Error("mock response text empty")
	}
	if !resp.RequiresApproval {
		t.Error("high priority mock responses should require approval")
	}
}
