package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RandyMyers/mbzserver12-sub001/internal/audit"
	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/repository"
	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

// TicketService coordinates ticket lifecycle and messaging workflows. Every
// operation is scoped to an organization; a ticket outside the caller's
// scope is indistinguishable from a missing one.
type TicketService struct {
	tickets repository.TicketRepository
	auditor audit.Recorder
	cache   *StatsCache
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Auditor    audit.Recorder
	StatsCache *StatsCache
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	OrganizationID string
	Subject        string
	Description    string
	Category       domain.TicketCategory
	Priority       domain.TicketPriority
	Customer       domain.Customer
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets: deps.TicketRepo,
		auditor: deps.Auditor,
		cache:   deps.StatsCache,
	}
}

// Create opens a new ticket for a customer.
func (s *TicketService) Create(ctx context.Context, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requireScope(input.OrganizationID); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" {
		return nil, util.NewValidationError("subject and description required", nil)
	}
	if err := validateCustomer(input.Customer); err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = domain.TicketCategoryGeneral
	}
	if !category.Valid() {
		return nil, util.NewValidationError("invalid category", map[string]any{"category": category})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, util.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:                uuid.NewString(),
		OrganizationID:    input.OrganizationID,
		Subject:           subject,
		Description:       description,
		Category:          category,
		Priority:          priority,
		Status:            domain.TicketStatusOpen,
		Customer:          input.Customer,
		Messages:          []domain.Message{},
		HasUnreadMessages: false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, mapStoreErr(err)
	}
	s.record(ctx, audit.Entry{
		Action:         audit.ActionCreateTicket,
		UserID:         actorID,
		ResourceType:   "support_ticket",
		ResourceID:     ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Details: map[string]any{
			"subject":  ticket.Subject,
			"category": ticket.Category,
			"priority": ticket.Priority,
		},
	})
	s.cache.Invalidate(ctx, ticket.OrganizationID)
	return ticket, nil
}

// List returns all tickets for the organization, most recently updated first.
func (s *TicketService) List(ctx context.Context, organizationID string) ([]domain.Ticket, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return tickets, nil
}

// Get fetches a single ticket within the organization scope.
func (s *TicketService) Get(ctx context.Context, id, organizationID string) (*domain.Ticket, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Get(ctx, id, organizationID)
	if err != nil {
		return nil, mapTicketErr(err)
	}
	return ticket, nil
}

// Update merges permitted fields into the ticket. The organization scope can
// never change: a patch carrying a different organization id is rejected
// before any field is applied.
func (s *TicketService) Update(ctx context.Context, actorID, id, organizationID string, patch domain.TicketPatch) (*domain.Ticket, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Mutate(ctx, id, organizationID, func(t *domain.Ticket) error {
		return applyPatch(t, patch)
	})
	if err != nil {
		return nil, mapTicketErr(err)
	}
	s.record(ctx, audit.Entry{
		Action:         audit.ActionUpdateTicket,
		UserID:         actorID,
		ResourceType:   "support_ticket",
		ResourceID:     ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Details:        map[string]any{"subject": ticket.Subject},
	})
	s.cache.Invalidate(ctx, organizationID)
	return ticket, nil
}

// AppendMessage adds a message to the end of the ticket's thread.
//
// A customer message flags the ticket unread for support; a support message
// leaves the flag untouched. Support replies never clear the flag here —
// intentionally preserved from the upstream product behavior even though a
// clearing rule would be the more natural reading.
func (s *TicketService) AppendMessage(ctx context.Context, actorID, id, organizationID string, sender domain.MessageSender, content string) (*domain.Ticket, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	if !sender.Valid() {
		return nil, util.NewValidationError("invalid sender", map[string]any{"sender": sender})
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.NewValidationError("message content required", nil)
	}

	ticket, err := s.tickets.Mutate(ctx, id, organizationID, func(t *domain.Ticket) error {
		msg := domain.Message{
			ID:         uuid.NewString(),
			Sender:     sender,
			Content:    content,
			Timestamp:  time.Now(),
			ReadStatus: sender == domain.MessageSenderCustomer,
		}
		t.Messages = append(t.Messages, msg)
		if sender == domain.MessageSenderCustomer {
			t.HasUnreadMessages = true
		}
		return nil
	})
	if err != nil {
		return nil, mapTicketErr(err)
	}
	s.record(ctx, audit.Entry{
		Action:         audit.ActionAddMessage,
		UserID:         actorID,
		ResourceType:   "support_ticket",
		ResourceID:     ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Details: map[string]any{
			"sender":  sender,
			"preview": stringPreview(content, 120),
		},
	})
	s.cache.Invalidate(ctx, organizationID)
	return ticket, nil
}

// ChangeStatus moves the ticket to any of the four recognized statuses.
// There is no forward-only ordering; closed tickets can be reopened.
func (s *TicketService) ChangeStatus(ctx context.Context, actorID, id, organizationID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, util.NewValidationError("invalid status", map[string]any{"status": status})
	}

	var priorSubject string
	ticket, err := s.tickets.Mutate(ctx, id, organizationID, func(t *domain.Ticket) error {
		priorSubject = t.Subject
		t.Status = status
		return nil
	})
	if err != nil {
		return nil, mapTicketErr(err)
	}
	// The upstream audit payload records the prior subject and a close
	// timestamp for every status change, not only for closes.
	s.record(ctx, audit.Entry{
		Action:         audit.ActionChangeStatus,
		UserID:         actorID,
		ResourceType:   "support_ticket",
		ResourceID:     ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Details: map[string]any{
			"subject":   priorSubject,
			"status":    status,
			"closed_at": time.Now(),
		},
	})
	s.cache.Invalidate(ctx, organizationID)
	return ticket, nil
}

// Delete hard-removes the ticket within the organization scope.
func (s *TicketService) Delete(ctx context.Context, actorID, id, organizationID string) error {
	if err := requireScope(organizationID); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id, organizationID); err != nil {
		return mapTicketErr(err)
	}
	s.record(ctx, audit.Entry{
		Action:         audit.ActionDeleteTicket,
		UserID:         actorID,
		ResourceType:   "support_ticket",
		ResourceID:     id,
		OrganizationID: organizationID,
	})
	s.cache.Invalidate(ctx, organizationID)
	return nil
}

func applyPatch(t *domain.Ticket, patch domain.TicketPatch) error {
	if patch.OrganizationID != nil && *patch.OrganizationID != t.OrganizationID {
		return util.NewValidationError("organization mismatch", nil)
	}
	if patch.Subject != nil {
		subject := strings.TrimSpace(*patch.Subject)
		if subject == "" {
			return util.NewValidationError("subject cannot be empty", nil)
		}
		t.Subject = subject
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return util.NewValidationError("description cannot be empty", nil)
		}
		t.Description = description
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return util.NewValidationError("invalid category", map[string]any{"category": *patch.Category})
		}
		t.Category = *patch.Category
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return util.NewValidationError("invalid priority", map[string]any{"priority": *patch.Priority})
		}
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return util.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
		}
		t.Status = *patch.Status
	}
	if patch.Customer != nil {
		if err := validateCustomer(*patch.Customer); err != nil {
			return err
		}
		t.Customer = *patch.Customer
	}
	return nil
}

func validateCustomer(customer domain.Customer) error {
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Email) == "" {
		return util.NewValidationError("customer name and email required", nil)
	}
	return nil
}

func requireScope(organizationID string) error {
	if strings.TrimSpace(organizationID) == "" {
		return util.NewValidationError("organization id required", nil)
	}
	return nil
}

// mapTicketErr translates repository and callback errors into the caller
// taxonomy: scope misses become not-found, anything else from the store is
// retryable.
func mapTicketErr(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *util.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return util.NewNotFound("ticket", nil)
	}
	return util.NewStoreError(err)
}

func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *util.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return util.NewStoreError(err)
}

func (s *TicketService) record(ctx context.Context, entry audit.Entry) {
	recordEntry(ctx, s.auditor, entry)
}

func recordEntry(ctx context.Context, recorder audit.Recorder, entry audit.Entry) {
	if recorder == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_ = recorder.Record(ctx, entry)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
