package repository

import (
	"github.com/escolaranieri/galeriabackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormGroupRepository struct {
	db *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

func (r *GormGroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GormGroupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GormGroupRepository) GetByName(name string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("name = ?", name).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GormGroupRepository) ListAll() ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Find(&groups).Error
	return groups, err
}

func (r *GormGroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

func (r *GormGroupRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// delete membership rows and gallery links pointing at this group
		if err := tx.Where("group_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GalleryGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
}

func (r *GormGroupRepository) AddUserToGroup(userID, groupID uint) error {
	userGroup := models.UserGroup{UserID: userID, GroupID: groupID}
	// avoid error if association already exists
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userGroup).Error
}

func (r *GormGroupRepository) RemoveUserFromGroup(userID, groupID uint) error {
	return r.db.Where("user_id = ? AND group_id = ?", userID, groupID).Delete(&models.UserGroup{}).Error
}

func (r *GormGroupRepository) FindUsersByGroupID(groupID uint) ([]models.User, error) {
	var group models.Group
	if err := r.db.Preload("Users").First(&group, groupID).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(group.Users))
	for _, uPtr := range group.Users {
		if uPtr != nil {
			users = append(users, *uPtr)
		}
	}
	return users, nil
}
