package models

import "time"

// DefaultPublicGroupName is the conventional name of the group that marks
// content as public. Galleries linked to it are visible to everyone,
// including guests. The actual name in use comes from configuration.
const DefaultPublicGroupName = "free"

// Group is a named collection used both for organizational membership and
// for scoping gallery visibility.
type Group struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Users       []*User    `json:"-" gorm:"many2many:group_user;"`
	Galleries   []*Gallery `json:"-" gorm:"many2many:gallery_group;"`
}

// UserGroup is the join table for the many-to-many relationship between users and groups.
type UserGroup struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"primaryKey"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Group     Group     `json:"-" gorm:"foreignKey:GroupID"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for UserGroup to be `group_user`
func (UserGroup) TableName() string {
	return "group_user"
}

// GalleryGroup is the join table for the many-to-many relationship between galleries and groups.
type GalleryGroup struct {
	GalleryID uint      `json:"gallery_id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"primaryKey"`
	Gallery   Gallery   `json:"-" gorm:"foreignKey:GalleryID"`
	Group     Group     `json:"-" gorm:"foreignKey:GroupID"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for GalleryGroup to be `gallery_group`
func (GalleryGroup) TableName() string {
	return "gallery_group"
}
