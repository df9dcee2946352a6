package models

import "time"

// Gallery is an owned collection of images, scoped to zero or more groups
// for visibility. Only photographers create galleries; only the owning
// photographer mutates one.
type Gallery struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	EventDate   time.Time `json:"event_date" gorm:"index"` // used for recency ordering
	Groups      []*Group  `json:"groups,omitempty" gorm:"many2many:gallery_group;"`
	Images      []Image   `json:"images,omitempty" gorm:"foreignKey:GalleryID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupIDs returns the ids of the groups the gallery is linked to.
// Assumes g.Groups is preloaded.
func (g *Gallery) GroupIDs() []uint {
	ids := make([]uint, 0, len(g.Groups))
	for _, group := range g.Groups {
		if group == nil {
			continue
		}
		ids = append(ids, group.ID)
	}
	return ids
}

// InGroup checks if the gallery is linked to the group with the given id.
// Assumes g.Groups is preloaded.
func (g *Gallery) InGroup(groupID uint) bool {
	for _, group := range g.Groups {
		if group != nil && group.ID == groupID {
			return true
		}
	}
	return false
}
