package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// recordAudit appends an audit row. Failures are logged and never surface to
// the caller because the audited mutation has already been committed.
func recordAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, actor models.Actor, action, resource, resourceID string, values interface{}) {
	if audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if actor.UserID != "" {
		userID := actor.UserID
		entry.UserID = &userID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if values != nil {
		payload, err := json.Marshal(values)
		if err != nil {
			logger.Warn("failed to encode audit values", zap.String("action", action), zap.Error(err))
		} else {
			entry.NewValues = payload
		}
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
