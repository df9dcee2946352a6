package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/escolaranieri/galeriabackend/database"
	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
)

type GalleryHandler struct {
	GalleryRepo repository.GalleryRepository
	GroupRepo   repository.GroupRepository
	Engine      *permissions.Engine
}

func NewGalleryHandler(galleryRepo repository.GalleryRepository, groupRepo repository.GroupRepository, engine *permissions.Engine) *GalleryHandler {
	return &GalleryHandler{GalleryRepo: galleryRepo, GroupRepo: groupRepo, Engine: engine}
}

// parseEventDate accepts a date-only value or a full RFC3339 timestamp.
func parseEventDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func searchOptionsFromQuery(r *http.Request) (database.GallerySearchOptions, error) {
	q := r.URL.Query()
	opts := database.GallerySearchOptions{
		TitleLike: strings.TrimSpace(q.Get("title")),
		SortOrder: q.Get("sort"),
	}

	if raw := q.Get("owner_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return opts, err
		}
		opts.OwnerID = uint(id)
	}
	if raw := q.Get("group_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return opts, err
		}
		opts.GroupID = uint(id)
	}
	if raw := q.Get("event_from"); raw != "" {
		t, err := parseEventDate(raw)
		if err != nil {
			return opts, err
		}
		opts.EventFrom = &t
	}
	if raw := q.Get("event_to"); raw != "" {
		t, err := parseEventDate(raw)
		if err != nil {
			return opts, err
		}
		opts.EventTo = &t
	}
	return opts, nil
}

// List returns the galleries the caller may view, newest event first by
// default. Filters narrow the candidate set; the visibility rule is applied
// per gallery within a single decision scope so group memberships are only
// fetched once.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := UserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	opts, err := searchOptionsFromQuery(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", "invalid search filter")
		return
	}
	if opts.SortOrder != "" && !database.IsValidSortOrder(opts.SortOrder) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", "unknown sort order")
		return
	}

	summaries, err := h.GalleryRepo.Search(opts)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to search galleries")
		return
	}

	decision := h.Engine.NewDecision()
	gates := h.Engine.Gates()
	visible := make([]database.GallerySummary, 0, len(summaries))
	for _, s := range summaries {
		candidate := &models.Gallery{ID: s.ID, UserID: s.UserID}
		allowed, err := gates.ViewGallery(decision, actor, candidate)
		if err != nil {
			log.Printf("gallery visibility check failed for gallery %d: %v", s.ID, err)
			WriteAPIError(w, http.StatusInternalServerError, "authorization_error", "failed to evaluate permissions")
			return
		}
		if allowed {
			visible = append(visible, s)
		}
	}
	WriteJSON(w, http.StatusOK, visible)
}

// Get is guest tolerant: it runs behind OptionalAuthMiddleware and relies on
// the view-gallery rule, which admits anonymous callers for galleries linked
// to the public group.
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateViewGallery, actor, gallery)) {
		return
	}
	WriteJSON(w, http.StatusOK, gallery)
}

type GalleryPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	EventDate   string  `json:"event_date"`
}

func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateCreateGallery, actor, nil)) {
		return
	}

	var payload GalleryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "gallery title is required")
		return
	}

	eventDate := time.Now()
	if payload.EventDate != "" {
		parsed, err := parseEventDate(payload.EventDate)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid event_date")
			return
		}
		eventDate = parsed
	}

	gallery := &models.Gallery{
		Title:       payload.Title,
		Description: payload.Description,
		UserID:      actor.ID,
		EventDate:   eventDate,
	}
	if err := h.GalleryRepo.Create(gallery); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "create_failed", "failed to create gallery")
		return
	}
	WriteJSON(w, http.StatusCreated, gallery)
}

type GalleryUpdatePayload struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	EventDate   *string `json:"event_date,omitempty"`
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageGallery, actor, gallery)) {
		return
	}

	var payload GalleryUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	if payload.Title != nil {
		title := strings.TrimSpace(*payload.Title)
		if title == "" {
			WriteAPIError(w, http.StatusBadRequest, "missing_fields", "gallery title cannot be empty")
			return
		}
		gallery.Title = title
	}
	if payload.Description != nil {
		gallery.Description = payload.Description
	}
	if payload.EventDate != nil {
		parsed, err := parseEventDate(*payload.EventDate)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid event_date")
			return
		}
		gallery.EventDate = parsed
	}

	if err := h.GalleryRepo.Update(gallery); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "failed to update gallery")
		return
	}
	WriteJSON(w, http.StatusOK, gallery)
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageGallery, actor, gallery)) {
		return
	}

	if err := h.GalleryRepo.Delete(gallery.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete gallery")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachGroup links a group to a gallery, widening its visibility. The
// attach is idempotent.
func (h *GalleryHandler) AttachGroup(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	galleryID, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}
	groupID, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(galleryID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}
	if _, err := h.GroupRepo.GetByID(groupID); err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageGallery, actor, gallery)) {
		return
	}

	if err := h.GalleryRepo.AddGroupToGallery(gallery.ID, groupID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "attach_failed", "failed to attach group to gallery")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GalleryHandler) DetachGroup(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	galleryID, err := uintURLParam(r, "galleryID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid gallery id")
		return
	}
	groupID, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	gallery, err := h.GalleryRepo.GetByID(galleryID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "gallery not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateManageGallery, actor, gallery)) {
		return
	}

	if err := h.GalleryRepo.RemoveGroupFromGallery(gallery.ID, groupID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "detach_failed", "failed to detach group from gallery")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
