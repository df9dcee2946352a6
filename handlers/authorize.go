package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/escolaranieri/galeriabackend/permissions"
)

// authorize evaluates one permission check and writes the failure response
// when the caller is not allowed. A plain deny maps to 403 (401 for guests);
// an engine error means the check itself was misconfigured or a lookup
// failed, and maps to 500. Returns true when the request may proceed.
func authorize(w http.ResponseWriter, engine *permissions.Engine, req permissions.CheckRequest) bool {
	allowed, err := engine.Authorize(req)
	if err != nil {
		log.Printf("authorization check failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "authorization_error", "failed to evaluate permissions")
		return false
	}
	if !allowed {
		if req.Actor == nil {
			WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
			return false
		}
		WriteAPIError(w, http.StatusForbidden, "forbidden", "you are not allowed to perform this action")
		return false
	}
	return true
}

// uintURLParam parses a numeric chi URL parameter.
func uintURLParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
