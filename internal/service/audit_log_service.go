package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/RandyMyers/mbzserver12-sub001/internal/audit"
)

// AuditLogService is the fire-and-forget audit sink: it subscribes to every
// audited action and writes structured log lines. Persistence of audit
// records lives outside this service; failures here never reach the caller.
type AuditLogService struct {
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewAuditLogService creates the service.
func NewAuditLogService(recorder audit.Recorder, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{recorder: recorder, logger: logger}
}

// RegisterHandlers subscribes the sink to all audited actions.
func (s *AuditLogService) RegisterHandlers() {
	if s.recorder == nil {
		return
	}
	for _, action := range audit.Actions() {
		s.recorder.Subscribe(action, s.handleEntry)
	}
}

func (s *AuditLogService) handleEntry(ctx context.Context, entry audit.Entry) error {
	s.logger.Info("audit",
		zap.String("action", string(entry.Action)),
		zap.String("user_id", entry.UserID),
		zap.String("resource_type", entry.ResourceType),
		zap.String("resource_id", entry.ResourceID),
		zap.String("organization_id", entry.OrganizationID),
		zap.Any("details", entry.Details),
	)
	return nil
}
