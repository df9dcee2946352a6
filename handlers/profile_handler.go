package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
)

type ProfileHandler struct {
	ProfileRepo repository.ProfileRepository
	Engine      *permissions.Engine
}

func NewProfileHandler(profileRepo repository.ProfileRepository, engine *permissions.Engine) *ProfileHandler {
	return &ProfileHandler{ProfileRepo: profileRepo, Engine: engine}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "profileID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid profile id")
		return
	}

	profile, err := h.ProfileRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "profile not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceProfile, permissions.ActionView, actor, profile)) {
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

type ProfileUpdatePayload struct {
	Bio   *string `json:"bio,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "profileID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid profile id")
		return
	}

	profile, err := h.ProfileRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "profile not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceProfile, permissions.ActionUpdate, actor, profile)) {
		return
	}

	var payload ProfileUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	if payload.Bio != nil {
		profile.Bio = payload.Bio
	}
	if payload.Phone != nil {
		profile.Phone = payload.Phone
	}

	if err := h.ProfileRepo.Update(profile); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "failed to update profile")
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}
