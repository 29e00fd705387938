package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/RandyMyers/mbzserver12-sub001/internal/audit"
	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/repository"
	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

// IntegrationService manages the organization-scoped chat-integration list.
//
// The list lives on a dedicated sentinel ticket per organization, created on
// first use. Earlier revisions of the product stored the list on whichever
// ticket happened to be found first; anchoring it to the sentinel keeps the
// container stable while preserving the external contract. Entries carry a
// stable id, with positional addressing kept as a compatibility mode.
type IntegrationService struct {
	tickets repository.TicketRepository
	auditor audit.Recorder
	cache   *StatsCache
}

// IntegrationDependencies bundles collaborators for the service.
type IntegrationDependencies struct {
	TicketRepo repository.TicketRepository
	Auditor    audit.Recorder
	StatsCache *StatsCache
}

// IntegrationInput describes a chat-widget configuration payload.
type IntegrationInput struct {
	Provider   string
	APIKey     string
	WidgetID   string
	PropertyID string
	Config     map[string]any
	IsActive   *bool
	Status     domain.IntegrationStatus
}

// NewIntegrationService constructs the service.
func NewIntegrationService(deps IntegrationDependencies) *IntegrationService {
	return &IntegrationService{
		tickets: deps.TicketRepo,
		auditor: deps.Auditor,
		cache:   deps.StatsCache,
	}
}

// Add appends an integration to the organization's list, creating the
// sentinel holder ticket when the organization has none yet.
func (s *IntegrationService) Add(ctx context.Context, actorID, organizationID string, input IntegrationInput) ([]domain.ChatIntegration, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	integ, err := buildIntegration(input)
	if err != nil {
		return nil, err
	}

	holder, err := s.tickets.EnsureSentinel(ctx, organizationID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	ticket, err := s.tickets.Mutate(ctx, holder.ID, organizationID, func(t *domain.Ticket) error {
		t.ChatIntegrations = append(t.ChatIntegrations, integ)
		return nil
	})
	if err != nil {
		return nil, mapTicketErr(err)
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionAddIntegration,
		UserID:         actorID,
		ResourceType:   "chat_integration",
		ResourceID:     integ.ID,
		OrganizationID: organizationID,
		Details:        map[string]any{"provider": integ.Provider},
	})
	// The sentinel may be freshly created, which changes ticket counts.
	s.cache.Invalidate(ctx, organizationID)
	return ticket.ChatIntegrations, nil
}

// List returns the organization's integrations, or an empty list when the
// organization has no holder ticket yet.
func (s *IntegrationService) List(ctx context.Context, organizationID string) ([]domain.ChatIntegration, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	holder, err := s.findHolder(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return []domain.ChatIntegration{}, nil
	}
	if holder.ChatIntegrations == nil {
		return []domain.ChatIntegration{}, nil
	}
	return holder.ChatIntegrations, nil
}

// UpdateAt replaces the integration at the given position. The position is
// not stable across removals; UpdateByID is the preferred addressing mode.
func (s *IntegrationService) UpdateAt(ctx context.Context, actorID, organizationID string, index int, input IntegrationInput) ([]domain.ChatIntegration, error) {
	return s.update(ctx, actorID, organizationID, input, func(list []domain.ChatIntegration) (int, error) {
		if index < 0 || index >= len(list) {
			return 0, util.NewNotFound("chat integration", map[string]any{"index": index})
		}
		return index, nil
	})
}

// UpdateByID replaces the integration with the given stable id.
func (s *IntegrationService) UpdateByID(ctx context.Context, actorID, organizationID, integrationID string, input IntegrationInput) ([]domain.ChatIntegration, error) {
	return s.update(ctx, actorID, organizationID, input, func(list []domain.ChatIntegration) (int, error) {
		return indexOf(list, integrationID)
	})
}

// RemoveAt deletes the integration at the given position.
func (s *IntegrationService) RemoveAt(ctx context.Context, actorID, organizationID string, index int) ([]domain.ChatIntegration, error) {
	return s.remove(ctx, actorID, organizationID, func(list []domain.ChatIntegration) (int, error) {
		if index < 0 || index >= len(list) {
			return 0, util.NewNotFound("chat integration", map[string]any{"index": index})
		}
		return index, nil
	})
}

// RemoveByID deletes the integration with the given stable id.
func (s *IntegrationService) RemoveByID(ctx context.Context, actorID, organizationID, integrationID string) ([]domain.ChatIntegration, error) {
	return s.remove(ctx, actorID, organizationID, func(list []domain.ChatIntegration) (int, error) {
		return indexOf(list, integrationID)
	})
}

func (s *IntegrationService) update(ctx context.Context, actorID, organizationID string, input IntegrationInput, locate func([]domain.ChatIntegration) (int, error)) ([]domain.ChatIntegration, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	replacement, err := buildIntegration(input)
	if err != nil {
		return nil, err
	}

	holder, err := s.requireHolder(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	var updatedID string
	ticket, err := s.tickets.Mutate(ctx, holder.ID, organizationID, func(t *domain.Ticket) error {
		idx, err := locate(t.ChatIntegrations)
		if err != nil {
			return err
		}
		replacement.ID = t.ChatIntegrations[idx].ID
		t.ChatIntegrations[idx] = replacement
		updatedID = replacement.ID
		return nil
	})
	if err != nil {
		return nil, mapTicketErr(err)
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionUpdateIntegration,
		UserID:         actorID,
		ResourceType:   "chat_integration",
		ResourceID:     updatedID,
		OrganizationID: organizationID,
		Details:        map[string]any{"provider": replacement.Provider},
	})
	return ticket.ChatIntegrations, nil
}

func (s *IntegrationService) remove(ctx context.Context, actorID, organizationID string, locate func([]domain.ChatIntegration) (int, error)) ([]domain.ChatIntegration, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	holder, err := s.requireHolder(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	var removedID string
	ticket, err := s.tickets.Mutate(ctx, holder.ID, organizationID, func(t *domain.Ticket) error {
		idx, err := locate(t.ChatIntegrations)
		if err != nil {
			return err
		}
		removedID = t.ChatIntegrations[idx].ID
		t.ChatIntegrations = append(t.ChatIntegrations[:idx], t.ChatIntegrations[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, mapTicketErr(err)
	}

	s.record(ctx, audit.Entry{
		Action:         audit.ActionRemoveIntegration,
		UserID:         actorID,
		ResourceType:   "chat_integration",
		ResourceID:     removedID,
		OrganizationID: organizationID,
	})
	if ticket.ChatIntegrations == nil {
		return []domain.ChatIntegration{}, nil
	}
	return ticket.ChatIntegrations, nil
}

func (s *IntegrationService) findHolder(ctx context.Context, organizationID string) (*domain.Ticket, error) {
	tickets, err := s.tickets.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	for i := range tickets {
		if tickets[i].IsSentinel {
			return &tickets[i], nil
		}
	}
	return nil, nil
}

func (s *IntegrationService) requireHolder(ctx context.Context, organizationID string) (*domain.Ticket, error) {
	holder, err := s.findHolder(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return nil, util.NewNotFound("chat integration", nil)
	}
	return holder, nil
}

func (s *IntegrationService) record(ctx context.Context, entry audit.Entry) {
	recordEntry(ctx, s.auditor, entry)
}

func buildIntegration(input IntegrationInput) (domain.ChatIntegration, error) {
	provider := strings.TrimSpace(input.Provider)
	if provider == "" {
		return domain.ChatIntegration{}, util.NewValidationError("provider required", nil)
	}
	integ := domain.ChatIntegration{
		ID:         uuid.NewString(),
		Provider:   provider,
		APIKey:     input.APIKey,
		WidgetID:   input.WidgetID,
		PropertyID: input.PropertyID,
		Config:     input.Config,
		IsActive:   true,
		Status:     domain.IntegrationStatusConnected,
	}
	if input.IsActive != nil {
		integ.IsActive = *input.IsActive
	}
	if input.Status != "" {
		integ.Status = input.Status
	}
	return integ, nil
}

func indexOf(list []domain.ChatIntegration, id string) (int, error) {
	for i := range list {
		if list[i].ID == id {
			return i, nil
		}
	}
	return 0, util.NewNotFound("chat integration", map[string]any{"id": id})
}
