package repository

import (
	"context"

	"gorm.io/gorm"

	"labreserve/internal/model"
)

// AuditRepository defines audit log persistence operations. The log is
// append-only: there are deliberately no update or delete methods.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Create appends a new audit entry.
func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns audit entries in reverse-chronological order.
func (r *auditRepository) List(ctx context.Context, offset, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
