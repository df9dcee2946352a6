package repository

import (
	"github.com/escolaranieri/galeriabackend/database"
	"github.com/escolaranieri/galeriabackend/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)

	// role management for a user
	AddRoleToUser(userID uint, roleID uint) error
	RemoveRoleFromUser(userID uint, roleID uint) error

	// group membership management for a user
	AddGroupToUser(userID uint, groupID uint) error
	RemoveGroupFromUser(userID uint, groupID uint) error
}

// ProfileRepository defines the methods for profile data operations
type ProfileRepository interface {
	GetByID(id uint) (*models.Profile, error)
	GetByUserID(userID uint) (*models.Profile, error)
	Update(profile *models.Profile) error
}

// RoleRepository defines the methods for role data operations
type RoleRepository interface {
	Create(role *models.Role) error
	GetByID(id uint) (*models.Role, error)
	GetByName(name string) (*models.Role, error)
	ListAll() ([]models.Role, error)
	Delete(id uint) error
	FindUsersByRoleID(roleID uint) ([]models.User, error)
}

// GroupRepository defines the methods for group data operations
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id uint) (*models.Group, error)
	GetByName(name string) (*models.Group, error)
	ListAll() ([]models.Group, error)
	Update(group *models.Group) error
	Delete(id uint) error

	// group membership management
	AddUserToGroup(userID, groupID uint) error
	RemoveUserFromGroup(userID, groupID uint) error
	FindUsersByGroupID(groupID uint) ([]models.User, error)
}

// GalleryRepository defines the methods for gallery data operations
type GalleryRepository interface {
	Create(gallery *models.Gallery) error
	GetByID(id uint) (*models.Gallery, error)
	ListAll() ([]models.Gallery, error)
	ListByOwner(userID uint) ([]models.Gallery, error)
	Search(opts database.GallerySearchOptions) ([]database.GallerySummary, error)
	Update(gallery *models.Gallery) error
	Delete(id uint) error

	// group visibility management for a gallery
	AddGroupToGallery(galleryID, groupID uint) error
	RemoveGroupFromGallery(galleryID, groupID uint) error
}

// ImageRepository defines the methods for image data operations
type ImageRepository interface {
	Create(image *models.Image) error
	GetByID(id uint) (*models.Image, error)
	ListByGalleryID(galleryID uint) ([]models.Image, error)
	Update(image *models.Image) error
	Delete(id uint) error

	// thumbnail task lifecycle
	MarkThumbnailProcessing(imageID uint) error
	SetThumbnailResult(imageID uint, thumbPath *string, width, height *int, takenAt *int64, taskErr error) error
	GetImagesRequiringProcessing() ([]models.Image, error)
}
