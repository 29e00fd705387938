package dto

import (
	"time"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
)

// CustomerPayload carries the ticket originator identity.
type CustomerPayload struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Customer    CustomerPayload       `json:"customer"`
}

// UpdateTicketRequest payload; nil fields are left untouched.
type UpdateTicketRequest struct {
	Subject        *string                `json:"subject"`
	Description    *string                `json:"description"`
	Category       *domain.TicketCategory `json:"category"`
	Priority       *domain.TicketPriority `json:"priority"`
	Status         *domain.TicketStatus   `json:"status"`
	Customer       *CustomerPayload       `json:"customer"`
	OrganizationID *string                `json:"organization_id"`
}

// AppendMessageRequest payload.
type AppendMessageRequest struct {
	Sender  domain.MessageSender `json:"sender"`
	Content string               `json:"content"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// MessageResponse represents one thread entry.
type MessageResponse struct {
	ID         string               `json:"id"`
	Sender     domain.MessageSender `json:"sender"`
	Content    string               `json:"content"`
	Timestamp  time.Time            `json:"timestamp"`
	ReadStatus bool                 `json:"read_status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID                string                `json:"id"`
	OrganizationID    string                `json:"organization_id"`
	Subject           string                `json:"subject"`
	Category          domain.TicketCategory `json:"category"`
	Priority          domain.TicketPriority `json:"priority"`
	Status            domain.TicketStatus   `json:"status"`
	Customer          CustomerPayload       `json:"customer"`
	HasUnreadMessages bool                  `json:"has_unread_messages"`
	MessageCount      int                   `json:"message_count"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID                string                `json:"id"`
	OrganizationID    string                `json:"organization_id"`
	Subject           string                `json:"subject"`
	Description       string                `json:"description"`
	Category          domain.TicketCategory `json:"category"`
	Priority          domain.TicketPriority `json:"priority"`
	Status            domain.TicketStatus   `json:"status"`
	Customer          CustomerPayload       `json:"customer"`
	HasUnreadMessages bool                  `json:"has_unread_messages"`
	Messages          []MessageResponse     `json:"messages"`
	ChatIntegrations  []IntegrationResponse `json:"chat_integrations"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}
