package models

import "time"

// Profile holds the editable public details of a user. Every user has
// exactly one profile, created together with the user and removed only
// when the user is deleted.
type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio       *string   `json:"bio,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
