package dto

import (
	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
)

// IntegrationRequest payload for add/update.
type IntegrationRequest struct {
	Provider   string                   `json:"provider"`
	APIKey     string                   `json:"api_key"`
	WidgetID   string                   `json:"widget_id"`
	PropertyID string                   `json:"property_id"`
	Config     map[string]any           `json:"config"`
	IsActive   *bool                    `json:"is_active"`
	Status     domain.IntegrationStatus `json:"status"`
}

// IntegrationResponse represents one chat-widget configuration.
type IntegrationResponse struct {
	ID         string                   `json:"id"`
	Provider   string                   `json:"provider"`
	APIKey     string                   `json:"api_key,omitempty"`
	WidgetID   string                   `json:"widget_id,omitempty"`
	PropertyID string                   `json:"property_id,omitempty"`
	Config     map[string]any           `json:"config,omitempty"`
	IsActive   bool                     `json:"is_active"`
	Status     domain.IntegrationStatus `json:"status"`
}
