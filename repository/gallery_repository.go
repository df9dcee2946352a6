package repository

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/database"
	"github.com/escolaranieri/galeriabackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormGalleryRepository struct {
	db *gorm.DB
}

func NewGormGalleryRepository(db *gorm.DB) GalleryRepository {
	return &GormGalleryRepository{db: db}
}

func (r *GormGalleryRepository) Create(gallery *models.Gallery) error {
	return r.db.Create(gallery).Error
}

func (r *GormGalleryRepository) GetByID(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.Preload("Groups").First(&gallery, id).Error
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *GormGalleryRepository) ListAll() ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.db.Preload("Groups").Order("event_date DESC").Find(&galleries).Error
	return galleries, err
}

func (r *GormGalleryRepository) ListByOwner(userID uint) ([]models.Gallery, error) {
	var galleries []models.Gallery
	err := r.db.Preload("Groups").Where("user_id = ?", userID).Order("event_date DESC").Find(&galleries).Error
	return galleries, err
}

// Search runs the squirrel-built filter query against the raw connection.
func (r *GormGalleryRepository) Search(opts database.GallerySearchOptions) ([]database.GallerySummary, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return database.SearchGalleries(sqlDB, opts)
}

func (r *GormGalleryRepository) Update(gallery *models.Gallery) error {
	return r.db.Save(gallery).Error
}

// Delete removes the gallery, its images and its group links in one
// transaction.
func (r *GormGalleryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_id = ?", id).Delete(&models.GalleryGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Gallery{}, id).Error
	})
}

func (r *GormGalleryRepository) AddGroupToGallery(galleryID, groupID uint) error {
	galleryGroup := models.GalleryGroup{GalleryID: galleryID, GroupID: groupID}
	// avoid error if association already exists
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&galleryGroup).Error
}

func (r *GormGalleryRepository) RemoveGroupFromGallery(galleryID, groupID uint) error {
	return r.db.Where("gallery_id = ? AND group_id = ?", galleryID, groupID).Delete(&models.GalleryGroup{}).Error
}
