package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/escolaranieri/galeriabackend/models"
)

// seedRoles is the full set of user roles known to the system. Only admin
// and fotografo carry behavior today; the rest exist for assignment via the
// admin interface.
var seedRoles = []string{
	models.RoleAdmin,
	models.RoleFotografo,
	"familia",
	"aluno",
	"professor",
	"funcionario",
	"gestao",
	"DE",
}

// Seed creates the baseline roles, groups and bootstrap users. It is
// idempotent and safe to run on every startup.
func Seed(db *gorm.DB, publicGroupName string) error {
	for _, name := range seedRoles {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %q: %w", name, err)
		}
	}

	groupNames := []string{publicGroupName, "admin", "fotografo"}
	for _, name := range groupNames {
		desc := fmt.Sprintf("Grupo de acesso para '%s'.", name)
		group := models.Group{Name: name, Description: &desc}
		if err := db.Where("name = ?", name).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("failed to seed group %q: %w", name, err)
		}
	}

	if err := seedBootstrapUser(db, "Administrador", "admin@escolaranieri.example", models.RoleAdmin, "admin"); err != nil {
		return err
	}
	if err := seedBootstrapUser(db, "Fotógrafo", "fotografo@escolaranieri.example", models.RoleFotografo, "fotografo"); err != nil {
		return err
	}

	log.Println("database seed completed")
	return nil
}

// seedBootstrapUser creates a user with the given role and group if no user
// with that email exists yet. The initial password equals the role name and
// must be changed after first login.
func seedBootstrapUser(db *gorm.DB, name, email, roleName, groupName string) error {
	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		return fmt.Errorf("failed to look up role %q: %w", roleName, err)
	}
	var group models.Group
	if err := db.Where("name = ?", groupName).First(&group).Error; err != nil {
		return fmt.Errorf("failed to look up group %q: %w", groupName, err)
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		// already seeded; make sure the role/group links exist
		return attachSeedAssociations(db, user.ID, role.ID, group.ID)
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to look up seed user %q: %w", email, err)
	}

	user = models.User{Name: name, Email: email}
	if err := user.SetPassword(roleName); err != nil {
		return fmt.Errorf("failed to hash seed password for %q: %w", email, err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create seed user %q: %w", email, err)
		}
		if err := tx.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("failed to create profile for seed user %q: %w", email, err)
		}
		return attachSeedAssociations(tx, user.ID, role.ID, group.ID)
	})
}

func attachSeedAssociations(db *gorm.DB, userID, roleID, groupID uint) error {
	userRole := models.UserRole{UserID: userID, RoleID: roleID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userRole).Error; err != nil {
		return fmt.Errorf("failed to attach seed role: %w", err)
	}
	userGroup := models.UserGroup{UserID: userID, GroupID: groupID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userGroup).Error; err != nil {
		return fmt.Errorf("failed to attach seed group: %w", err)
	}
	return nil
}
