package handlers

import (
	"net/http"

	"github.com/escolaranieri/galeriabackend/permissions"
)

type PermissionsHandler struct {
	Engine *permissions.Engine
}

func NewPermissionsHandler(engine *permissions.Engine) *PermissionsHandler {
	return &PermissionsHandler{Engine: engine}
}

// ListDefinedChecks serves the statically defined policy actions and gates.
// An admin UI uses this to render what can be checked without hardcoding the
// catalog client-side.
func (h *PermissionsHandler) ListDefinedChecks(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromContext(r.Context())
	if !authorize(w, h.Engine, permissions.GateCheck(permissions.GateAdminOnly, actor, nil)) {
		return
	}
	WriteJSON(w, http.StatusOK, permissions.DefinedCheckGroups)
}
