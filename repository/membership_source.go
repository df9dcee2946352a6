package repository

import (
	"errors"

	"github.com/escolaranieri/galeriabackend/models"
	"gorm.io/gorm"
)

// GormMembershipSource backs the authorization engine's membership lookups.
// It only ever reads.
type GormMembershipSource struct {
	db *gorm.DB
}

func NewGormMembershipSource(db *gorm.DB) *GormMembershipSource {
	return &GormMembershipSource{db: db}
}

func (s *GormMembershipSource) RolesByUserID(userID uint) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.
		Joins("JOIN role_user ON role_user.role_id = roles.id").
		Where("role_user.user_id = ?", userID).
		Find(&roles).Error
	return roles, err
}

func (s *GormMembershipSource) GroupsByUserID(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.
		Joins("JOIN group_user ON group_user.group_id = groups.id").
		Where("group_user.user_id = ?", userID).
		Find(&groups).Error
	return groups, err
}

func (s *GormMembershipSource) GroupsByGalleryID(galleryID uint) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.
		Joins("JOIN gallery_group ON gallery_group.group_id = groups.id").
		Where("gallery_group.gallery_id = ?", galleryID).
		Find(&groups).Error
	return groups, err
}

// GalleryByID returns (nil, nil) when the gallery does not exist: a missing
// gallery reference is an authorization deny, not a lookup failure.
func (s *GormMembershipSource) GalleryByID(galleryID uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := s.db.Preload("Groups").First(&gallery, galleryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gallery, nil
}
