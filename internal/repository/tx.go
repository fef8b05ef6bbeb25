package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles transaction-scoped repositories so a single database
// transaction can span the reservation and audit tables.
type TxRepos struct {
	Reservations ReservationRepository
	Audits       AuditRepository
}

// TxManager executes a function within a database transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a GORM-backed transaction manager.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction runs fn with repositories bound to one transaction. Any
// error from fn rolls the whole transaction back.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := TxRepos{
			Reservations: &reservationRepository{db: tx},
			Audits:       &auditRepository{db: tx},
		}
		return fn(ctx, repos)
	})
}
