package model

import "time"

// Audit action labels.
const (
	AuditActionCreate = "CREATE"
)

// AuditLog is an immutable record of a mutating action.
// Entries are appended once and never updated or deleted. TargetID is a weak
// reference (no foreign key) so any entity type can be audited uniformly.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Action      string    `json:"action" gorm:"size:50;not null"`
	TargetModel string    `json:"target_model" gorm:"size:100;not null"`
	TargetID    uint      `json:"target_id" gorm:"not null"`
	Details     string    `json:"details,omitempty" gorm:"type:text"`
}

// TableName keeps the table name explicit.
func (AuditLog) TableName() string {
	return "audit_logs"
}
