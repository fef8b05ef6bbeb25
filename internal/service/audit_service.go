package service

import (
	"context"
	"encoding/json"
	"fmt"

	"labreserve/internal/model"
	"labreserve/internal/repository"
)

// AuditService records and lists immutable audit entries.
type AuditService interface {
	Record(ctx context.Context, userID uint, action, targetModel string, targetID uint, details map[string]interface{}) error
	List(ctx context.Context, offset, limit int) ([]model.AuditLog, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// NewAuditEntry builds an audit entry with the detail map serialized to JSON.
// Callers running inside a transaction use this to append through their
// transaction-scoped repository.
func NewAuditEntry(userID uint, action, targetModel string, targetID uint, details map[string]interface{}) (*model.AuditLog, error) {
	entry := &model.AuditLog{
		UserID:      userID,
		Action:      action,
		TargetModel: targetModel,
		TargetID:    targetID,
	}
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("marshal audit details: %w", err)
		}
		entry.Details = string(payload)
	}
	return entry, nil
}

// Record appends one audit entry.
func (s *auditService) Record(ctx context.Context, userID uint, action, targetModel string, targetID uint, details map[string]interface{}) error {
	entry, err := NewAuditEntry(userID, action, targetModel, targetID, details)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, entry)
}

// List returns audit entries in reverse-chronological order.
func (s *auditService) List(ctx context.Context, offset, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}
