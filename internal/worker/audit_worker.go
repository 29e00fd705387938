package worker

import (
	"github.com/RandyMyers/mbzserver12-sub001/internal/service"
)

// StartAuditWorker registers the audit log sink.
func StartAuditWorker(auditLogService *service.AuditLogService) {
	if auditLogService == nil {
		return
	}
	auditLogService.RegisterHandlers()
}
