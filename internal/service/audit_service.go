package service

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// AuditService records state-changing portal actions as structured log entries.
// Tokens and passwords never reach it.
type AuditService interface {
	LogSuccess(ctx context.Context, action string, role entity.Role, entityName, entityID string)
	LogFailure(ctx context.Context, action string, role entity.Role, entityName, entityID string, err error)
}

type auditService struct {
	log *logrus.Logger
}

func NewAuditService(log *logrus.Logger) AuditService {
	return &auditService{log: log}
}

// LogSuccess logs a completed action
func (s *auditService) LogSuccess(ctx context.Context, action string, role entity.Role, entityName, entityID string) {
	s.write(entity.AuditEvent{
		Action:   action,
		Role:     role,
		Entity:   entityName,
		EntityID: entityID,
		Outcome:  entity.AuditOutcomeSuccess,
	}, nil)
}

// LogFailure logs a rejected or failed action with the error kind
func (s *auditService) LogFailure(ctx context.Context, action string, role entity.Role, entityName, entityID string, err error) {
	s.write(entity.AuditEvent{
		Action:   action,
		Role:     role,
		Entity:   entityName,
		EntityID: entityID,
		Outcome:  entity.AuditOutcomeFailure,
	}, err)
}

func (s *auditService) write(event entity.AuditEvent, err error) {
	fields := logrus.Fields{
		"audit":     true,
		"action":    event.Action,
		"role":      event.Role.String(),
		"entity":    event.Entity,
		"entity_id": event.EntityID,
		"outcome":   event.Outcome,
	}
	if err != nil {
		fields["error_kind"] = string(entity.ErrorKindOf(err))
		s.log.WithFields(fields).Warn("Audit event")
		return
	}
	s.log.WithFields(fields).Info("Audit event")
}
