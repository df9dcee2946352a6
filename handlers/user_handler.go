package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/escolaranieri/galeriabackend/media"
	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
)

type UserHandler struct {
	UserRepo  repository.UserRepository
	Engine    *permissions.Engine
	Processor *media.Processor
	Store     media.Store
}

func NewUserHandler(userRepo repository.UserRepository, engine *permissions.Engine, store media.Store) *UserHandler {
	return &UserHandler{
		UserRepo:  userRepo,
		Engine:    engine,
		Processor: media.NewProcessor(store),
		Store:     store,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceUser, permissions.ActionViewAny, actor, nil)) {
		return
	}

	users, err := h.UserRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list users")
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	target, err := h.UserRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceUser, permissions.ActionView, actor, target)) {
		return
	}
	WriteJSON(w, http.StatusOK, target)
}

type UserUpdatePayload struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	target, err := h.UserRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceUser, permissions.ActionUpdate, actor, target)) {
		return
	}

	var payload UserUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			WriteAPIError(w, http.StatusBadRequest, "missing_fields", "name cannot be empty")
			return
		}
		target.Name = name
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		if email == "" {
			WriteAPIError(w, http.StatusBadRequest, "missing_fields", "email cannot be empty")
			return
		}
		target.Email = email
	}
	if payload.Password != nil {
		if len(*payload.Password) < 8 {
			WriteAPIError(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters")
			return
		}
		if err := target.SetPassword(*payload.Password); err != nil {
			WriteAPIError(w, http.StatusInternalServerError, "password_error", "failed to hash password")
			return
		}
	}

	if err := h.UserRepo.Update(target); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "failed to update user")
		return
	}
	WriteJSON(w, http.StatusOK, target)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	target, err := h.UserRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceUser, permissions.ActionDelete, actor, target)) {
		return
	}

	if err := h.UserRepo.Delete(target.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar accepts a multipart "avatar" file, resizes it and stores the
// result, replacing the previous avatar if one exists. Guarded by the same
// rule as a profile update: admins and the user themselves.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	target, err := h.UserRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceUser, permissions.ActionUpdate, actor, target)) {
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "avatar file is required")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		WriteAPIError(w, http.StatusUnsupportedMediaType, "unsupported_type", "avatar must be a raster image")
		return
	}

	savedPath, err := h.Processor.ProcessAvatar(file)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "avatar_failed", "failed to process avatar")
		return
	}

	oldAvatar := target.AvatarPath
	target.AvatarPath = &savedPath
	if err := h.UserRepo.Update(target); err != nil {
		_ = h.Store.Delete(savedPath)
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "failed to save avatar path")
		return
	}
	if oldAvatar != nil && *oldAvatar != savedPath {
		_ = h.Store.Delete(*oldAvatar)
	}

	WriteJSON(w, http.StatusOK, target)
}
