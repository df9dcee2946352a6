package models

import "time"

// Well-known role names. Roles are flat tags; no role implies another.
const (
	RoleAdmin     = "admin"
	RoleFotografo = "fotografo"
)

// Role is a named tag that can be assigned to users
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Users     []*User   `json:"-" gorm:"many2many:role_user;"` // Many-to-many relationship with User
}

// UserRole is the join table for the many-to-many relationship between users and roles.
type UserRole struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	RoleID    uint      `json:"role_id" gorm:"primaryKey"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Role      Role      `json:"-" gorm:"foreignKey:RoleID"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for UserRole to be `role_user`
func (UserRole) TableName() string {
	return "role_user"
}
