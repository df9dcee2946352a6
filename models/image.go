package models

import "time"

// Thumbnail processing states for an image.
const (
	ThumbStatusPending    = "pending"
	ThumbStatusProcessing = "processing"
	ThumbStatusDone       = "done"
	ThumbStatusError      = "error"
)

// Image belongs to exactly one gallery. Ordering within a gallery is by
// insertion id.
type Image struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	GalleryID uint     `json:"gallery_id" gorm:"not null;index"`
	Gallery   *Gallery `json:"-" gorm:"foreignKey:GalleryID"`

	Title        *string `json:"title,omitempty"`
	OriginalPath string  `json:"original_path" gorm:"not null"`
	Filename     string  `json:"filename" gorm:"not null"`

	Width   *int   `json:"width,omitempty"`    // Nullable
	Height  *int   `json:"height,omitempty"`   // Nullable
	TakenAt *int64 `json:"taken_at,omitempty"` // Nullable, Unix timestamp from EXIF

	ThumbnailPath        *string `json:"thumbnail_path,omitempty"` // Nullable
	ThumbnailStatus      string  `json:"thumbnail_status" gorm:"not null;default:pending"`
	ThumbnailError       *string `json:"thumbnail_error,omitempty"`        // Nullable
	ThumbnailProcessedAt *int64  `json:"thumbnail_processed_at,omitempty"` // Nullable, Unix timestamp

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
