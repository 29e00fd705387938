package domain

// IntegrationStatus describes the operational state of a chat integration.
type IntegrationStatus string

const (
	IntegrationStatusConnected    IntegrationStatus = "connected"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
)

// ChatIntegration is one third-party chat-widget configuration attached to
// an organization. Each entry carries a stable ID so updates and removals
// survive list reordering; the positional index is only a compatibility
// addressing mode.
type ChatIntegration struct {
	ID         string
	Provider   string
	APIKey     string
	WidgetID   string
	PropertyID string
	Config     map[string]any
	IsActive   bool
	Status     IntegrationStatus
}

// Clone returns a copy with its own config map.
func (ci ChatIntegration) Clone() ChatIntegration {
	dup := ci
	if ci.Config != nil {
		dup.Config = make(map[string]any, len(ci.Config))
		for k, v := range ci.Config {
			dup.Config[k] = v
		}
	}
	return dup
}
