package domain

// TicketCategory classifies the nature of a support request.
type TicketCategory string

const (
	CategoryTechnical TicketCategory = "technical"
	CategoryBilling   TicketCategory = "billing"
	CategoryFeature   TicketCategory = "feature"
	CategoryAccess    TicketCategory = "access"
)

// ParseCategory validates a category string returned by the classifier.
func ParseCategory(value string) (TicketCategory, bool) {
	switch TicketCategory(value) {
	case CategoryTechnical, CategoryBilling, CategoryFeature, CategoryAccess:
		return TicketCategory(value), true
	}
	return "", false
}

// TicketPriority ranks urgency on a 1-4 scale.
type TicketPriority int

const (
	PriorityLow    TicketPriority = 1
	PriorityMedium TicketPriority = 2
	PriorityHigh   TicketPriority = 3
	PriorityUrgent TicketPriority = 4
)

// Valid reports whether the priority is within the 1-4 scale.
func (p TicketPriority) Valid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

func (p TicketPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	}
	return "unknown"
}

// SupportTicket is the inbound unit of work for triage.
type SupportTicket struct {
	ID           string
	Subject      string
	Content      string
	CustomerInfo map[string]string
}
