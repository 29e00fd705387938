package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
)

// ErrNotFound is returned when no ticket matches both id and organization.
// A ticket that exists under a different organization is reported the same
// way as one that does not exist at all.
var ErrNotFound = errors.New("ticket not found")

// TicketRepository encapsulates scoped ticket persistence. Every operation
// takes the organization id alongside the ticket id; implementations must
// never return or touch a ticket outside that scope.
//
// Mutate runs a read-modify-write as one serialized step per ticket:
// fn receives a working copy of the aggregate, and only when fn succeeds is
// the copy persisted with a refreshed UpdatedAt. Concurrent Mutate calls on
// the same ticket never interleave, so embedded collections are always
// appended to, never clobbered. A failed fn leaves the stored ticket
// unchanged.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Get(ctx context.Context, id, organizationID string) (*domain.Ticket, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Ticket, error)
	Mutate(ctx context.Context, id, organizationID string, fn func(*domain.Ticket) error) (*domain.Ticket, error)
	Delete(ctx context.Context, id, organizationID string) error
	// EnsureSentinel returns the organization's sentinel ticket, creating it
	// atomically when absent. At most one sentinel exists per organization.
	EnsureSentinel(ctx context.Context, organizationID string) (*domain.Ticket, error)
}

// NewSentinelTicket builds the synthetic ticket that hosts an organization's
// chat-integration list. It is a regular ticket row in every other respect.
func NewSentinelTicket(organizationID string) *domain.Ticket {
	now := time.Now()
	return &domain.Ticket{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Subject:        "Chat Integrations",
		Description:    "Holds chat widget integrations for the organization",
		Category:       domain.TicketCategoryGeneral,
		Priority:       domain.TicketPriorityMedium,
		Status:         domain.TicketStatusOpen,
		Customer:       domain.Customer{Name: "system", Email: "system@internal"},
		Messages:       []domain.Message{},
		IsSentinel:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
