package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
)

func newTicket(org string) *domain.Ticket {
	now := time.Now()
	return &domain.Ticket{
		ID:             uuid.NewString(),
		OrganizationID: org,
		Subject:        "subject",
		Description:    "description",
		Category:       domain.TicketCategoryGeneral,
		Priority:       domain.TicketPriorityMedium,
		Status:         domain.TicketStatusOpen,
		Customer:       domain.Customer{Name: "A", Email: "a@x.com"},
		Messages:       []domain.Message{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestGetScopedByOrganization(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	ticket := newTicket("org-1")
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, ticket.ID, "org-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != ticket.ID {
		t.Fatalf("got wrong ticket %s", got.ID)
	}

	if _, err := repo.Get(ctx, ticket.ID, "org-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-org get should be not found, got %v", err)
	}
}

func TestListOrderedByUpdatedAtDesc(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		ticket := newTicket("org-1")
		ticket.Subject = fmt.Sprintf("ticket-%d", i)
		ticket.UpdatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(ctx, ticket); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(ctx, newTicket("org-2")); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListByOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(list))
	}
	if list[0].Subject != "ticket-2" || list[2].Subject != "ticket-0" {
		t.Fatalf("wrong order: %s, %s, %s", list[0].Subject, list[1].Subject, list[2].Subject)
	}
}

func TestMutateRefreshesUpdatedAt(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	ticket := newTicket("org-1")
	ticket.UpdatedAt = time.Now().Add(-time.Hour)
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.Mutate(ctx, ticket.ID, "org-1", func(t *domain.Ticket) error {
		t.Status = domain.TicketStatusResolved
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if !updated.UpdatedAt.After(ticket.UpdatedAt) {
		t.Fatal("UpdatedAt not refreshed")
	}
	if updated.Status != domain.TicketStatusResolved {
		t.Fatalf("status not applied: %s", updated.Status)
	}
}

func TestMutateFailureLeavesTicketUnchanged(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	ticket := newTicket("org-1")
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	_, err := repo.Mutate(ctx, ticket.ID, "org-1", func(t *domain.Ticket) error {
		t.Subject = "mutated"
		t.Messages = append(t.Messages, domain.Message{ID: "m1"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	stored, err := repo.Get(ctx, ticket.ID, "org-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Subject != "subject" || len(stored.Messages) != 0 {
		t.Fatal("failed mutation leaked into store")
	}
}

func TestMutateScopedByOrganization(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	ticket := newTicket("org-1")
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Mutate(ctx, ticket.ID, "org-2", func(t *domain.Ticket) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-org mutate should be not found, got %v", err)
	}
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	ticket := newTicket("org-1")
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := repo.Mutate(ctx, ticket.ID, "org-1", func(t *domain.Ticket) error {
				t.Messages = append(t.Messages, domain.Message{
					ID:      fmt.Sprintf("m-%d", n),
					Sender:  domain.MessageSenderCustomer,
					Content: "hello",
				})
				return nil
			})
			if err != nil {
				t.Errorf("mutate: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stored, err := repo.Get(ctx, ticket.ID, "org-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Messages) != writers {
		t.Fatalf("lost updates: expected %d messages, got %d", writers, len(stored.Messages))
	}
}

func TestDeleteScopedByOrganization(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	ticket := newTicket("org-1")
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(ctx, ticket.ID, "org-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-org delete should be not found, got %v", err)
	}
	if err := repo.Delete(ctx, ticket.ID, "org-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, ticket.ID, "org-1"); !errors.Is(err, ErrNotFound) {
		t.Fatal("ticket should be gone")
	}
}

func TestEnsureSentinelIsIdempotent(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	first, err := repo.EnsureSentinel(ctx, "org-1")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !first.IsSentinel {
		t.Fatal("sentinel flag not set")
	}
	second, err := repo.EnsureSentinel(ctx, "org-1")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same sentinel, got %s and %s", first.ID, second.ID)
	}

	other, err := repo.EnsureSentinel(ctx, "org-2")
	if err != nil {
		t.Fatalf("ensure other org: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("sentinels must be per-organization")
	}
}
