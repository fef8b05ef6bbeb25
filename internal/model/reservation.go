package model

import (
	"time"

	"gorm.io/gorm"
)

// Reservation represents a booking of a lab resource by a user.
// Deleting a reservation only stamps DeletedAt; rows are never removed and a
// deleted row is invisible to every default query.
type Reservation struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	LabName    string         `json:"lab_name" gorm:"size:150;not null;index"`
	ReservedBy string         `json:"reserved_by" gorm:"size:150;not null"`
	Purpose    string         `json:"purpose" gorm:"type:text;not null"`
	StartTime  time.Time      `json:"start_time" gorm:"not null"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	OwnerID    uint           `json:"owner_id" gorm:"not null;index"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}
