package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/facette/natsort"
	"github.com/google/uuid"

	"github.com/escolaranieri/galeriabackend/media"
	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
	"github.com/escolaranieri/galeriabackend/workers"
)

type ImageHandler struct {
	ImageRepo   repository.ImageRepository
	GalleryRepo repository.GalleryRepository
	Engine      *permissions.Engine
	Store       media.Store
	Thumbs      *workers.ThumbnailGenerator
}

func NewImageHandler(imageRepo repository.ImageRepository, galleryRepo repository.GalleryRepository, engine *permissions.Engine, store media.Store, thumbs *workers.ThumbnailGenerator) *ImageHandler {
	return &ImageHandler{
		ImageRepo:   imageRepo,
		GalleryRepo: galleryRepo,
		Engine:      engine,
		Store:       store,
		Thumbs:      thumbs,
	}
}

const maxUploadBytes = 64 << 20 // 64 MiB

// Upload accepts a multipart "file" for a gallery, stores the original and
// queues thumbnail generation. Only the owning photographer may upload.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	galleryID, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(galleryID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageImage, actor, gallery)) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "image file is required")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusUnsupportedMediaType, "unsupported_type", "file must be a raster image")
		return
	}

	fileUUID, err := uuid.NewRandom()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "upload_failed", "failed to generate filename")
		return
	}
	storedName := fileUUID.String() + strings.ToLower(filepath.Ext(header.Filename))

	savedRelPath, err := h.Store.Save(media.AssetTypeOriginal, strconv.FormatUint(uint64(gallery.ID), 10), storedName, file)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "upload_failed", "failed to store image")
		return
	}

	var title *string
	if t := strings.TrimSpace(r.FormValue("title")); t != "" {
		title = &t
	}

	img := &models.Image{
		GalleryID:       gallery.ID,
		Title:           title,
		OriginalPath:    savedRelPath,
		Filename:        header.Filename,
		ThumbnailStatus: models.ThumbStatusPending,
	}
	if err := h.ImageRepo.Create(img); err != nil {
		_ = h.Store.Delete(savedRelPath)
		WriteAPIError(w, http.StatusInternalServerError, "upload_failed", "failed to record image")
		return
	}

	h.Thumbs.QueueJob(workers.ThumbnailJob{ImageID: img.ID})

	WriteJSON(w, http.StatusCreated, img)
}

// ListByGallery returns a gallery's images in insertion order, or in natural
// filename order when ?sort=natural is given (IMG_2 before IMG_10). Guest
// tolerant like gallery viewing itself.
func (h *ImageHandler) ListByGallery(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	galleryID, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(galleryID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateViewGallery, actor, gallery)) {
		return
	}

	images, err := h.ImageRepo.ListByGalleryID(gallery.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list images")
		return
	}

	if r.URL.Query().Get("sort") == "natural" {
		sort.SliceStable(images, func(i, j int) bool {
			return natsort.Compare(images[i].Filename, images[j].Filename)
		})
	}

	WriteJSON(w, http.StatusOK, images)
}

type ImageUpdatePayload struct {
	Title *string `json:"title,omitempty"`
}

func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "imageID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid image id")
		return
	}

	img, err := h.ImageRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "image not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageImage, actor, img)) {
		return
	}

	var payload ImageUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	if payload.Title != nil {
		if t := strings.TrimSpace(*payload.Title); t != "" {
			img.Title = &t
		} else {
			img.Title = nil
		}
	}

	if err := h.ImageRepo.Update(img); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "failed to update image")
		return
	}
	WriteJSON(w, http.StatusOK, img)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "imageID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid image id")
		return
	}

	img, err := h.ImageRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "image not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageImage, actor, img)) {
		return
	}

	if err := h.ImageRepo.Delete(img.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete image")
		return
	}

	// best-effort file cleanup after the record is gone
	_ = h.Store.Delete(img.OriginalPath)
	if img.ThumbnailPath != nil {
		_ = h.Store.Delete(*img.ThumbnailPath)
	}

	w.WriteHeader(http.StatusNoContent)
}
