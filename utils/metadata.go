package utils

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata carries the subset of image information the gallery stores per
// image: pixel dimensions and the EXIF capture time.
type Metadata struct {
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	TakenAt *int64 `json:"taken_at,omitempty"` // unix timestamp
}

// GetImageMetadata extracts dimensions via image.DecodeConfig and the capture
// time via goexif. a file without EXIF data is not an error; the returned
// Metadata simply has a nil TakenAt.
func GetImageMetadata(filePath string) (*Metadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	var width, height *int
	config, _, err := image.DecodeConfig(file)
	if err == nil {
		w, h := config.Width, config.Height
		width = &w
		height = &h
	} else {
		log.Printf("metadata: could not decode dimensions of %s: %v", filePath, err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek file %s: %w", filePath, err)
	}

	exifData, err := exif.Decode(file)
	if err != nil {
		// file might just lack EXIF data
		return &Metadata{Width: width, Height: height}, nil
	}

	meta := &Metadata{Width: width, Height: height}

	dt, err := exifData.DateTime()
	if err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}

	return meta, nil
}
