package domain

import "time"

// AgentRole controls what an authenticated agent may do.
type AgentRole string

const (
	AgentRoleAgent AgentRole = "AGENT"
	AgentRoleAdmin AgentRole = "ADMIN"
)

// AgentStatus represents lifecycle states for an agent account.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "ACTIVE"
	AgentStatusSuspended AgentStatus = "SUSPENDED"
)

// Agent is a support operator who can submit tickets for triage and review
// drafted responses.
type Agent struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AgentRole
	Status       AgentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
