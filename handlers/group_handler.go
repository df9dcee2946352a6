package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
)

type GroupHandler struct {
	GroupRepo repository.GroupRepository
	Engine    *permissions.Engine
}

func NewGroupHandler(groupRepo repository.GroupRepository, engine *permissions.Engine) *GroupHandler {
	return &GroupHandler{GroupRepo: groupRepo, Engine: engine}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionViewAny, actor, nil)) {
		return
	}

	groups, err := h.GroupRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list groups")
		return
	}
	WriteJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	group, err := h.GroupRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionView, actor, group)) {
		return
	}
	WriteJSON(w, http.StatusOK, group)
}

// Members lists the users in a group. Unlike plain group viewing this is
// gated on access-group: admins, or members of the group itself.
func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	group, err := h.GroupRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateAccessGroup, actor, group)) {
		return
	}

	users, err := h.GroupRepo.FindUsersByGroupID(group.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list group members")
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

type GroupPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionCreate, actor, nil)) {
		return
	}

	var payload GroupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "group name is required")
		return
	}

	group := &models.Group{Name: payload.Name, Description: payload.Description}
	if err := h.GroupRepo.Create(group); err != nil {
		WriteAPIError(w, http.StatusConflict, "create_failed", "failed to create group, name may already exist")
		return
	}
	WriteJSON(w, http.StatusCreated, group)
}

type GroupUpdatePayload struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	group, err := h.GroupRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionUpdate, actor, group)) {
		return
	}

	var payload GroupUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "invalid request payload")
		return
	}

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			WriteAPIError(w, http.StatusBadRequest, "missing_fields", "group name cannot be empty")
			return
		}
		group.Name = name
	}
	if payload.Description != nil {
		group.Description = payload.Description
	}

	if err := h.GroupRepo.Update(group); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "failed to update group")
		return
	}
	WriteJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	id, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	group, err := h.GroupRepo.GetByID(id)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionDelete, actor, group)) {
		return
	}

	if err := h.GroupRepo.Delete(group.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "failed to delete group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMember attaches a user to a group. The attach is idempotent; adding an
// existing member succeeds without a duplicate row.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	groupID, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}
	userID, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	group, err := h.GroupRepo.GetByID(groupID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionUpdate, actor, group)) {
		return
	}

	if err := h.GroupRepo.AddUserToGroup(userID, group.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "attach_failed", "failed to add user to group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	groupID, err := uintURLParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}
	userID, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	group, err := h.GroupRepo.GetByID(groupID)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	if !authorize(w, h.Engine, permissions.PolicyCheck(permissions.ResourceGroup, permissions.ActionUpdate, actor, group)) {
		return
	}

	if err := h.GroupRepo.RemoveUserFromGroup(userID, group.ID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "detach_failed", "failed to remove user from group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
