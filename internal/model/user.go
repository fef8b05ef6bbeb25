package model

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64;not null"`
	FullName     string    `json:"full_name,omitempty" gorm:"size:120"`
	Email        *string   `json:"email,omitempty" gorm:"uniqueIndex;size:120"` // nullable so absent emails skip the unique index
	PasswordHash string    `json:"-" gorm:"size:255;not null"`                  // Never expose in JSON
	Role         string    `json:"role,omitempty" gorm:"size:16;default:'user'"`
	IsActive     bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Reservations []Reservation `json:"-" gorm:"foreignKey:OwnerID"`
}

// IsAdmin reports whether the user may access administrative views.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
