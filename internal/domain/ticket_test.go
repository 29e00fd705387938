package domain

import (
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	valid := []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}
	for _, s := range valid {
		if !s.Valid() {
			t.Fatalf("status %q should be valid", s)
		}
	}
	for _, s := range []TicketStatus{"", "escalated", "OPEN", "done"} {
		if s.Valid() {
			t.Fatalf("status %q should be invalid", s)
		}
	}
}

func TestPriorityAndCategoryValid(t *testing.T) {
	if !TicketPriorityHigh.Valid() || TicketPriority("urgent").Valid() {
		t.Fatal("priority validation broken")
	}
	if !TicketCategoryBilling.Valid() || TicketCategory("sales").Valid() {
		t.Fatal("category validation broken")
	}
}

func TestCloneIsolation(t *testing.T) {
	ticket := &Ticket{
		ID:       "t1",
		Messages: []Message{{ID: "m1", Sender: MessageSenderCustomer, Content: "hi"}},
		ChatIntegrations: []ChatIntegration{
			{ID: "i1", Provider: "tawk", Config: map[string]any{"widget": "a"}},
		},
	}
	clone := ticket.Clone()
	clone.Messages[0].Content = "changed"
	clone.Messages = append(clone.Messages, Message{ID: "m2"})
	clone.ChatIntegrations[0].Config["widget"] = "b"

	if ticket.Messages[0].Content != "hi" {
		t.Fatal("clone shares message backing array")
	}
	if len(ticket.Messages) != 1 {
		t.Fatal("clone append leaked into original")
	}
	if ticket.ChatIntegrations[0].Config["widget"] != "a" {
		t.Fatal("clone shares integration config map")
	}
}

func TestFirstSupportReplyAt(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ticket := &Ticket{Messages: []Message{
		{Sender: MessageSenderCustomer, Timestamp: base},
		{Sender: MessageSenderSupport, Timestamp: base.Add(time.Hour)},
		{Sender: MessageSenderSupport, Timestamp: base.Add(2 * time.Hour)},
	}}
	at, ok := ticket.FirstSupportReplyAt()
	if !ok {
		t.Fatal("expected a support reply")
	}
	if !at.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected earliest reply, got %v", at)
	}

	noReply := &Ticket{Messages: []Message{{Sender: MessageSenderCustomer, Timestamp: base}}}
	if _, ok := noReply.FirstSupportReplyAt(); ok {
		t.Fatal("customer-only thread should have no support reply")
	}
}
