package handlers

import (
	"net/http"

	"github.com/escolaranieri/galeriabackend/permissions"
	"github.com/escolaranieri/galeriabackend/repository"
)

type RoleHandler struct {
	RoleRepo repository.RoleRepository
	UserRepo repository.UserRepository
	Engine   *permissions.Engine
}

func NewRoleHandler(roleRepo repository.RoleRepository, userRepo repository.UserRepository, engine *permissions.Engine) *RoleHandler {
	return &RoleHandler{RoleRepo: roleRepo, UserRepo: userRepo, Engine: engine}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateAdminOnly, actor, nil)) {
		return
	}

	roles, err := h.RoleRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list roles")
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

func (h *RoleHandler) Users(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateAdminOnly, actor, nil)) {
		return
	}

	roleID, err := uintURLParam(r, "roleID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid role id")
		return
	}
	if _, err := h.RoleRepo.GetByID(roleID); err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "role not found")
		return
	}

	users, err := h.RoleRepo.FindUsersByRoleID(roleID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "failed to list role users")
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// Assign grants a role to a user. Granting a role the user already holds is
// a no-op.
func (h *RoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateAdminOnly, actor, nil)) {
		return
	}

	roleID, err := uintURLParam(r, "roleID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid role id")
		return
	}
	userID, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	if _, err := h.RoleRepo.GetByID(roleID); err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "role not found")
		return
	}
	if _, err := h.UserRepo.GetByID(userID); err != nil {
		WriteAPIError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	if err := h.UserRepo.AddRoleToUser(userID, roleID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "attach_failed", "failed to assign role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoleHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateAdminOnly, actor, nil)) {
		return
	}

	roleID, err := uintURLParam(r, "roleID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid role id")
		return
	}
	userID, err := uintURLParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	if err := h.UserRepo.RemoveRoleFromUser(userID, roleID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "detach_failed", "failed to revoke role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
