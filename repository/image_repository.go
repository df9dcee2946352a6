package repository

import (
	"fmt"
	"time"

	"github.com/escolaranieri/galeriabackend/models"
	"gorm.io/gorm"
)

type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) ImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) Create(image *models.Image) error {
	return r.db.Create(image).Error
}

// GetByID retrieves an image with its gallery and the gallery's groups
// preloaded, since authorization on an image always walks to its gallery.
func (r *GormImageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.Preload("Gallery.Groups").First(&image, id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ListByGalleryID returns the gallery's images in insertion order.
func (r *GormImageRepository) ListByGalleryID(galleryID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.Where("gallery_id = ?", galleryID).Order("id ASC").Find(&images).Error
	return images, err
}

func (r *GormImageRepository) Update(image *models.Image) error {
	return r.db.Save(image).Error
}

func (r *GormImageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Image{}, id).Error
}

// MarkThumbnailProcessing updates the thumbnail task status to 'processing' and clears its error
func (r *GormImageRepository) MarkThumbnailProcessing(imageID uint) error {
	updates := map[string]interface{}{
		"thumbnail_status": models.ThumbStatusProcessing,
		"thumbnail_error":  gorm.Expr("NULL"),
	}
	result := r.db.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark thumbnail processing for image %d: %w", imageID, result.Error)
	}
	return nil
}

// SetThumbnailResult records the outcome of a thumbnail job, marking the
// task done or storing the error message.
func (r *GormImageRepository) SetThumbnailResult(imageID uint, thumbPath *string, width, height *int, takenAt *int64, taskErr error) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"thumbnail_processed_at": now,
	}
	if taskErr != nil {
		updates["thumbnail_status"] = models.ThumbStatusError
		updates["thumbnail_error"] = taskErr.Error()
	} else {
		updates["thumbnail_status"] = models.ThumbStatusDone
		updates["thumbnail_error"] = gorm.Expr("NULL")
		updates["thumbnail_path"] = thumbPath
		if width != nil {
			updates["width"] = *width
		}
		if height != nil {
			updates["height"] = *height
		}
		if takenAt != nil {
			updates["taken_at"] = *takenAt
		}
	}

	result := r.db.Model(&models.Image{}).Where("id = ?", imageID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set thumbnail result for image %d: %w", imageID, result.Error)
	}
	return nil
}

// GetImagesRequiringProcessing returns images whose thumbnail task is still
// pending or was interrupted mid-processing.
func (r *GormImageRepository) GetImagesRequiringProcessing() ([]models.Image, error) {
	var images []models.Image
	err := r.db.Where("thumbnail_status IN ?", []string{models.ThumbStatusPending, models.ThumbStatusProcessing}).Find(&images).Error
	return images, err
}
