package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/repository"
)

func seedTicket(t *testing.T, repo repository.TicketRepository, org string, status domain.TicketStatus, createdAt time.Time, messages ...domain.Message) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Ticket{
		ID:             uuid.NewString(),
		OrganizationID: org,
		Subject:        "seed",
		Description:    "seed",
		Category:       domain.TicketCategoryGeneral,
		Priority:       domain.TicketPriorityMedium,
		Status:         status,
		Customer:       domain.Customer{Name: "A", Email: "a@x.com"},
		Messages:       messages,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestSummaryCounts(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo, nil)
	now := time.Now()

	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, now)
	seedTicket(t, repo, "org-1", domain.TicketStatusInProgress, now)
	seedTicket(t, repo, "org-1", domain.TicketStatusResolved, now)
	seedTicket(t, repo, "org-1", domain.TicketStatusClosed, now)
	seedTicket(t, repo, "org-2", domain.TicketStatusOpen, now)

	stats, err := svc.Summary(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if stats.Total != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total)
	}
	if stats.Open != 2 {
		t.Fatalf("expected open 2 (open + in-progress), got %d", stats.Open)
	}
	if stats.Resolved != 2 {
		t.Fatalf("expected resolved 2 (resolved + closed), got %d", stats.Resolved)
	}
}

func TestAvgFirstResponseSingleTicket(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo, nil)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, created,
		domain.Message{ID: "m1", Sender: domain.MessageSenderCustomer, Timestamp: created},
		domain.Message{ID: "m2", Sender: domain.MessageSenderSupport, Timestamp: created.Add(time.Hour)},
	)

	avg, err := svc.AvgFirstResponseHours(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("avg: %v", err)
	}
	if avg != 1.0 {
		t.Fatalf("expected 1.0 hour, got %v", avg)
	}
}

func TestAvgFirstResponseExcludesUnanswered(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo, nil)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Answered after 2h; the second ticket has only customer messages and
	// must not drag the average down.
	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, created,
		domain.Message{ID: "m1", Sender: domain.MessageSenderSupport, Timestamp: created.Add(2 * time.Hour)},
	)
	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, created,
		domain.Message{ID: "m2", Sender: domain.MessageSenderCustomer, Timestamp: created.Add(10 * time.Hour)},
	)

	avg, err := svc.AvgFirstResponseHours(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("avg: %v", err)
	}
	if avg != 2.0 {
		t.Fatalf("expected 2.0 hours, got %v", avg)
	}
}

func TestAvgFirstResponseZeroWhenNoReplies(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo, nil)
	now := time.Now()

	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, now)
	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, now,
		domain.Message{ID: "m1", Sender: domain.MessageSenderCustomer, Timestamp: now},
	)

	avg, err := svc.AvgFirstResponseHours(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("avg: %v", err)
	}
	if avg != 0 {
		t.Fatalf("expected 0 with no support replies, got %v", avg)
	}
}

func TestAvgFirstResponseRounding(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo, nil)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// (60min + 61min) / 2 = 60.5min = 1.00833h, rounds to 1.01.
	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, created,
		domain.Message{ID: "m1", Sender: domain.MessageSenderSupport, Timestamp: created.Add(60 * time.Minute)},
	)
	seedTicket(t, repo, "org-1", domain.TicketStatusOpen, created,
		domain.Message{ID: "m2", Sender: domain.MessageSenderSupport, Timestamp: created.Add(61 * time.Minute)},
	)

	avg, err := svc.AvgFirstResponseHours(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("avg: %v", err)
	}
	if avg != 1.01 {
		t.Fatalf("expected 1.01, got %v", avg)
	}
}

func TestSummaryEmptyOrganization(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewStatsService(repo, nil)

	stats, err := svc.Summary(context.Background(), "org-empty")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if stats.Total != 0 || stats.Open != 0 || stats.Resolved != 0 || stats.AvgFirstResponseHours != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
