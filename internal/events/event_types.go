package events

import (
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketReceived     EventType = "ticket_received"
	EventTicketTriaged      EventType = "ticket_triaged"
	EventTriageFailed       EventType = "triage_failed"
	EventResolutionReviewed EventType = "resolution_reviewed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketKey string      `json:"ticket_key"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketReceivedPayload payload.
type TicketReceivedPayload struct {
	Subject     string `json:"subject"`
	SubmittedBy string `json:"submitted_by,omitempty"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	Category         domain.TicketCategory `json:"category"`
	Priority         domain.TicketPriority `json:"priority"`
	Sentiment        float64               `json:"sentiment"`
	RequiresApproval bool                  `json:"requires_approval"`
	ProcessingSecs   float64               `json:"processing_seconds"`
}

// TriageFailedPayload payload.
type TriageFailedPayload struct {
	Error          string  `json:"error"`
	ProcessingSecs float64 `json:"processing_seconds"`
}

// ResolutionReviewedPayload payload.
type ResolutionReviewedPayload struct {
	Review     domain.ReviewState `json:"review"`
	ReviewedBy string             `json:"reviewed_by"`
	Note       string             `json:"note,omitempty"`
}
