package repository

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserRepository struct {
	db *gorm.DB
	// name of the group every new user is attached to on creation
	defaultGroupName string
}

func NewGormUserRepository(db *gorm.DB, defaultGroupName string) UserRepository {
	return &GormUserRepository{db: db, defaultGroupName: defaultGroupName}
}

// Create inserts the user together with its profile and attaches the default
// (public) group. A user never exists without a profile.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("failed to create profile for user %d: %w", user.ID, err)
		}

		group := models.Group{Name: r.defaultGroupName}
		if err := tx.Where("name = ?", r.defaultGroupName).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("failed to resolve default group %q: %w", r.defaultGroupName, err)
		}
		userGroup := models.UserGroup{UserID: user.ID, GroupID: group.ID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&userGroup).Error
	})
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles").Preload("Groups").Preload("Profile").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles").Preload("Groups").Preload("Profile").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes the user together with its profile, association rows and
// owned galleries (which cascade to their images and group links).
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var galleryIDs []uint
		if err := tx.Model(&models.Gallery{}).Where("user_id = ?", id).Pluck("id", &galleryIDs).Error; err != nil {
			return err
		}
		if len(galleryIDs) > 0 {
			if err := tx.Where("gallery_id IN ?", galleryIDs).Delete(&models.Image{}).Error; err != nil {
				return err
			}
			if err := tx.Where("gallery_id IN ?", galleryIDs).Delete(&models.GalleryGroup{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&models.Gallery{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Roles").Preload("Groups").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) AddRoleToUser(userID uint, roleID uint) error {
	userRole := models.UserRole{UserID: userID, RoleID: roleID}
	// avoid error if association already exists
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userRole).Error
}

func (r *GormUserRepository) RemoveRoleFromUser(userID uint, roleID uint) error {
	return r.db.Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&models.UserRole{}).Error
}

func (r *GormUserRepository) AddGroupToUser(userID uint, groupID uint) error {
	userGroup := models.UserGroup{UserID: userID, GroupID: groupID}
	// avoid error if association already exists
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userGroup).Error
}

func (r *GormUserRepository) RemoveGroupFromUser(userID uint, groupID uint) error {
	return r.db.Where("user_id = ? AND group_id = ?", userID, groupID).Delete(&models.UserGroup{}).Error
}
