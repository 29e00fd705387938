package audit

import (
	"context"
	"time"
)

// Action enumerates audited operations.
type Action string

const (
	ActionCreateTicket      Action = "create_support_ticket"
	ActionUpdateTicket      Action = "update_support_ticket"
	ActionDeleteTicket      Action = "delete_support_ticket"
	ActionChangeStatus      Action = "update_ticket_status"
	ActionAddMessage        Action = "add_ticket_message"
	ActionAddIntegration    Action = "add_chat_integration"
	ActionUpdateIntegration Action = "update_chat_integration"
	ActionRemoveIntegration Action = "remove_chat_integration"
)

// Entry is one audit record emitted as a side effect of a state-changing
// operation. Delivery is best-effort: the primary operation never fails or
// rolls back because an entry could not be handled.
type Entry struct {
	ID             string         `json:"id"`
	Action         Action         `json:"action"`
	UserID         string         `json:"user_id,omitempty"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	OrganizationID string         `json:"organization_id"`
	Details        map[string]any `json:"details,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Handler consumes a recorded entry.
type Handler func(context.Context, Entry) error
