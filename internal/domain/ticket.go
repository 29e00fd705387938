package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is one of the four recognized values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether the priority is a recognized value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// TicketCategory classifies the subject area of a ticket.
type TicketCategory string

const (
	TicketCategoryTechnical TicketCategory = "technical"
	TicketCategoryBilling   TicketCategory = "billing"
	TicketCategoryAccount   TicketCategory = "account"
	TicketCategoryGeneral   TicketCategory = "general"
)

// Valid reports whether the category is a recognized value.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryTechnical, TicketCategoryBilling, TicketCategoryAccount, TicketCategoryGeneral:
		return true
	}
	return false
}

// Customer is the immutable identity of the ticket originator. The struct
// is stored as a JSON document, hence the tags on a domain type.
type Customer struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Ticket is the aggregate for one customer support case. Messages and
// chat integrations are embedded collections; every read and write of a
// ticket is scoped by OrganizationID.
type Ticket struct {
	ID                string
	OrganizationID    string
	Subject           string
	Description       string
	Category          TicketCategory
	Priority          TicketPriority
	Status            TicketStatus
	Customer          Customer
	Messages          []Message
	HasUnreadMessages bool
	ChatIntegrations  []ChatIntegration
	// IsSentinel marks the synthetic ticket that hosts an organization's
	// chat-integration list. Sentinel tickets carry no conversation.
	IsSentinel bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone returns a deep copy of the ticket so callers can mutate a working
// copy without touching the stored aggregate.
func (t *Ticket) Clone() *Ticket {
	dup := *t
	if t.Messages != nil {
		dup.Messages = make([]Message, len(t.Messages))
		copy(dup.Messages, t.Messages)
	}
	if t.ChatIntegrations != nil {
		dup.ChatIntegrations = make([]ChatIntegration, len(t.ChatIntegrations))
		for i, integ := range t.ChatIntegrations {
			dup.ChatIntegrations[i] = integ.Clone()
		}
	}
	return &dup
}

// FirstSupportReplyAt returns the timestamp of the earliest support-sent
// message, or false when the ticket has no support reply yet. Messages are
// kept in chronological append order, so the first match is the earliest.
func (t *Ticket) FirstSupportReplyAt() (time.Time, bool) {
	for _, msg := range t.Messages {
		if msg.Sender == MessageSenderSupport {
			return msg.Timestamp, true
		}
	}
	return time.Time{}, false
}

// TicketPatch carries optional field updates for a ticket. Nil fields are
// left untouched. OrganizationID is accepted only when it matches the
// ticket's current organization; scope can never be changed.
type TicketPatch struct {
	Subject        *string
	Description    *string
	Category       *TicketCategory
	Priority       *TicketPriority
	Status         *TicketStatus
	Customer       *Customer
	OrganizationID *string
}
