package service

import (
	"context"
	"testing"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/repository"
	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

func newIntegrationService(t *testing.T) (*IntegrationService, repository.TicketRepository) {
	t.Helper()
	repo := repository.NewMemoryTicketRepository()
	recorder, _ := newCaptureRecorder()
	svc := NewIntegrationService(IntegrationDependencies{TicketRepo: repo, Auditor: recorder})
	return svc, repo
}

func tawk(widget string) IntegrationInput {
	return IntegrationInput{
		Provider:   "tawk",
		APIKey:     "key",
		WidgetID:   widget,
		PropertyID: "prop",
	}
}

func TestListWithoutHolderIsEmpty(t *testing.T) {
	svc, _ := newIntegrationService(t)
	list, err := svc.List(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(list))
	}
}

func TestAddCreatesHolderAndDefaults(t *testing.T) {
	svc, repo := newIntegrationService(t)
	ctx := context.Background()

	list, err := svc.Add(ctx, "agent-1", "org-1", tawk("w1"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 integration, got %d", len(list))
	}
	integ := list[0]
	if integ.ID == "" {
		t.Fatal("id not assigned")
	}
	if !integ.IsActive {
		t.Fatal("new integration should default to active")
	}
	if integ.Status != domain.IntegrationStatusConnected {
		t.Fatalf("expected connected, got %s", integ.Status)
	}

	tickets, err := repo.ListByOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("list tickets: %v", err)
	}
	var sentinels int
	for _, ticket := range tickets {
		if ticket.IsSentinel {
			sentinels++
		}
	}
	if sentinels != 1 {
		t.Fatalf("expected exactly one holder ticket, got %d", sentinels)
	}

	// A second add reuses the same holder.
	if _, err := svc.Add(ctx, "agent-1", "org-1", tawk("w2")); err != nil {
		t.Fatalf("second add: %v", err)
	}
	tickets, _ = repo.ListByOrganization(ctx, "org-1")
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket total, got %d", len(tickets))
	}
}

func TestAddRequiresProvider(t *testing.T) {
	svc, _ := newIntegrationService(t)
	_, err := svc.Add(context.Background(), "agent-1", "org-1", IntegrationInput{Provider: "  "})
	assertCode(t, err, util.CodeValidationFailed)
}

func TestUpdateAtOutOfRange(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "agent-1", "org-1", tawk("w1")); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := svc.UpdateAt(ctx, "agent-1", "org-1", 5, tawk("w2"))
	assertCode(t, err, util.CodeNotFound)
	_, err = svc.RemoveAt(ctx, "agent-1", "org-1", -1)
	assertCode(t, err, util.CodeNotFound)

	list, err := svc.List(ctx, "org-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].WidgetID != "w1" {
		t.Fatal("failed addressing must leave the list unchanged")
	}
}

func TestUpdatePreservesID(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	list, err := svc.Add(ctx, "agent-1", "org-1", tawk("w1"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	original := list[0]

	replacement := tawk("w1-replaced")
	replacement.Provider = "intercom"
	updated, err := svc.UpdateAt(ctx, "agent-1", "org-1", 0, replacement)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated[0].ID != original.ID {
		t.Fatalf("update must preserve id: %s vs %s", updated[0].ID, original.ID)
	}
	if updated[0].Provider != "intercom" || updated[0].WidgetID != "w1-replaced" {
		t.Fatalf("fields not replaced: %+v", updated[0])
	}
}

func TestIDsStableAcrossRemovals(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	var ids []string
	for _, w := range []string{"w1", "w2", "w3"} {
		list, err := svc.Add(ctx, "agent-1", "org-1", tawk(w))
		if err != nil {
			t.Fatalf("add %s: %v", w, err)
		}
		ids = append(ids, list[len(list)-1].ID)
	}

	list, err := svc.RemoveAt(ctx, "agent-1", "org-1", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 left, got %d", len(list))
	}
	if list[0].ID != ids[1] || list[1].ID != ids[2] {
		t.Fatal("removal shifted surviving ids")
	}

	// The survivors stay addressable by id even though their positions moved.
	updated, err := svc.UpdateByID(ctx, "agent-1", "org-1", ids[2], tawk("w3-new"))
	if err != nil {
		t.Fatalf("update by id: %v", err)
	}
	if updated[1].ID != ids[2] || updated[1].WidgetID != "w3-new" {
		t.Fatalf("update by id missed its target: %+v", updated[1])
	}

	remaining, err := svc.RemoveByID(ctx, "agent-1", "org-1", ids[1])
	if err != nil {
		t.Fatalf("remove by id: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != ids[2] {
		t.Fatalf("wrong survivor: %+v", remaining)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "agent-1", "org-1", tawk("w1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := svc.UpdateByID(ctx, "agent-1", "org-1", "nope", tawk("w2"))
	assertCode(t, err, util.CodeNotFound)
	_, err = svc.RemoveByID(ctx, "agent-1", "org-1", "nope")
	assertCode(t, err, util.CodeNotFound)
}

func TestMutationsWithoutHolderAreNotFound(t *testing.T) {
	svc, _ := newIntegrationService(t)
	ctx := context.Background()

	_, err := svc.UpdateAt(ctx, "agent-1", "org-1", 0, tawk("w1"))
	assertCode(t, err, util.CodeNotFound)
	_, err = svc.RemoveAt(ctx, "agent-1", "org-1", 0)
	assertCode(t, err, util.CodeNotFound)
}
