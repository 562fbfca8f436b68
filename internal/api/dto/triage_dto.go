package dto

import (
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// TicketRequest payload.
type TicketRequest struct {
	ID           string            `json:"id"`
	Subject      string            `json:"subject"`
	Content      string            `json:"content"`
	CustomerInfo map[string]string `json:"customer_info"`
}

// BatchTriageRequest payload.
type BatchTriageRequest struct {
	Tickets []TicketRequest `json:"tickets"`
}

// ReviewRequest payload.
type ReviewRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

// AnalysisResponse mirrors the merged analysis.
type AnalysisResponse struct {
	Category              domain.TicketCategory `json:"category"`
	Priority              domain.TicketPriority `json:"priority"`
	KeyPoints             []string              `json:"key_points"`
	RequiredExpertise     []string              `json:"required_expertise"`
	Sentiment             float64               `json:"sentiment"`
	UrgencyIndicators     []string              `json:"urgency_indicators"`
	BusinessImpact        string                `json:"business_impact"`
	SuggestedResponseType string                `json:"suggested_response_type"`
}

// SuggestionResponse mirrors the drafted reply.
type SuggestionResponse struct {
	ResponseText     string   `json:"response_text"`
	ConfidenceScore  float64  `json:"confidence_score"`
	RequiresApproval bool     `json:"requires_approval"`
	SuggestedActions []string `json:"suggested_actions"`
}

// ResolutionResponse is the full triage outcome for one ticket.
type ResolutionResponse struct {
	ID             string                  `json:"id,omitempty"`
	TicketID       string                  `json:"ticket_id"`
	Status         domain.ResolutionStatus `json:"status"`
	Analysis       *AnalysisResponse       `json:"analysis,omitempty"`
	Response       *SuggestionResponse     `json:"response,omitempty"`
	Review         domain.ReviewState      `json:"review"`
	ReviewedBy     *string                 `json:"reviewed_by,omitempty"`
	ReviewNote     *string                 `json:"review_note,omitempty"`
	Error          *string                 `json:"error,omitempty"`
	ProcessedAt    time.Time               `json:"processed_at"`
	ProcessingTime float64                 `json:"processing_time"`
}

// BatchTriageResponse payload.
type BatchTriageResponse struct {
	Results   []ResolutionResponse `json:"results"`
	Completed int                  `json:"completed"`
	Failed    int                  `json:"failed"`
}
