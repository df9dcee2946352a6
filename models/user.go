package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered member of the gallery system: a family
// member, a photographer or an administrator.
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash    string     `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	AvatarPath      *string    `json:"avatar_path,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	Roles           []*Role    `json:"roles,omitempty" gorm:"many2many:role_user;"`
	Groups          []*Group   `json:"groups,omitempty" gorm:"many2many:group_user;"`
	Profile         *Profile   `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasRole checks if the user holds at least one of the given role names.
// Assumes u.Roles is preloaded.
func (u *User) HasRole(names ...string) bool {
	for _, role := range u.Roles {
		if role == nil { // Defensive check
			continue
		}
		for _, name := range names {
			if role.Name == name {
				return true
			}
		}
	}
	return false
}

// GroupIDs returns the ids of the groups the user belongs to.
// Assumes u.Groups is preloaded.
func (u *User) GroupIDs() []uint {
	ids := make([]uint, 0, len(u.Groups))
	for _, group := range u.Groups {
		if group == nil {
			continue
		}
		ids = append(ids, group.ID)
	}
	return ids
}

// InGroup checks if the user belongs to the group with the given id.
// Assumes u.Groups is preloaded.
func (u *User) InGroup(groupID uint) bool {
	for _, group := range u.Groups {
		if group != nil && group.ID == groupID {
			return true
		}
	}
	return false
}
