package repository

import (
	"github.com/escolaranieri/galeriabackend/models"
	"gorm.io/gorm"
)

type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

func (r *GormRoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) ListAll() ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Find(&roles).Error
	return roles, err
}

func (r *GormRoleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// delete assignments of this role to users
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}

func (r *GormRoleRepository) FindUsersByRoleID(roleID uint) ([]models.User, error) {
	var role models.Role
	if err := r.db.Preload("Users").First(&role, roleID).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(role.Users))
	for _, uPtr := range role.Users {
		if uPtr != nil {
			users = append(users, *uPtr)
		}
	}
	return users, nil
}
