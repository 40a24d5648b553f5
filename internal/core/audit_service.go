package core

import (
	"context"
	"errors"
	"fmt"

	"storyweaver-backend-go/internal/db"
	"storyweaver-backend-go/internal/models"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// CreateAuditLog records an audit entry. Callers treat failures as
// non-fatal; the audited operation itself is never rolled back.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if s.auditRepo == nil {
		return errors.New("AuditRepository not initialized in AuditService")
	}
	if logEntry.UserID == "" || logEntry.Action == "" {
		return errors.New("audit log entry requires a userId and an action")
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to persist audit log entry: %w", err)
	}
	return nil
}
