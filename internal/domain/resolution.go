package domain

import "time"

// TicketAnalysis is the merged output of the classification and sentiment calls.
type TicketAnalysis struct {
	Category              TicketCategory `json:"category"`
	Priority              TicketPriority `json:"priority"`
	KeyPoints             []string       `json:"key_points"`
	RequiredExpertise     []string       `json:"required_expertise"`
	Sentiment             float64        `json:"sentiment"`
	UrgencyIndicators     []string       `json:"urgency_indicators"`
	BusinessImpact        string         `json:"business_impact"`
	SuggestedResponseType string         `json:"suggested_response_type"`
}

// ResponseSuggestion is the drafted reply produced by the generation call.
type ResponseSuggestion struct {
	ResponseText     string   `json:"response_text"`
	ConfidenceScore  float64  `json:"confidence_score"`
	RequiresApproval bool     `json:"requires_approval"`
	SuggestedActions []string `json:"suggested_actions"`
}

// ResolutionStatus marks the outcome of a triage run.
type ResolutionStatus string

const (
	ResolutionCompleted ResolutionStatus = "COMPLETED"
	ResolutionFailed    ResolutionStatus = "FAILED"
)

// ReviewState tracks the human approval workflow for drafted responses.
type ReviewState string

const (
	ReviewNone            ReviewState = "NONE"
	ReviewPendingApproval ReviewState = "PENDING_APPROVAL"
	ReviewApproved        ReviewState = "APPROVED"
	ReviewRejected        ReviewState = "REJECTED"
)

// TicketResolution packages the full triage outcome for one ticket.
// A completed resolution always carries both Analysis and Response; a failed
// one carries only Error and timing.
type TicketResolution struct {
	ID             string
	TicketKey      string
	Status         ResolutionStatus
	Analysis       *TicketAnalysis
	Response       *ResponseSuggestion
	Review         ReviewState
	ReviewedBy     *string
	ReviewNote     *string
	Error          *string
	ProcessedAt    time.Time
	ProcessingSecs float64
	CreatedAt      time.Time
}
