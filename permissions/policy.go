// Package permissions implements the authorization core of the gallery
// system: per-resource policies, named gates and the membership resolution
// both rely on. Every check is a pure, synchronous decision over resolved
// role and group sets; the package never writes anything.
package permissions

import (
	"errors"
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// Action names an operation on a resource type.
type Action string

const (
	ActionViewAny       Action = "viewAny"
	ActionView          Action = "view"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionManageGallery Action = "manageGallery"
)

// Resource type names under which policies are registered.
const (
	ResourceUser    = "user"
	ResourceProfile = "profile"
	ResourceGroup   = "group"
	ResourceGallery = "gallery"
	ResourceImage   = "image"
)

// Configuration errors. A check that trips one of these is miswired, not
// denied; callers must surface it as an internal error rather than a 403.
var (
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
	ErrUnknownAction   = errors.New("action not registered for resource")
	ErrUnknownGate     = errors.New("unknown gate")
	ErrInvalidResource = errors.New("resource has wrong type for policy")
	ErrInvalidCheck    = errors.New("invalid permission check request")
)

// Policy defines the authorization rules for one resource type. resource
// may be nil for resource-independent checks (list or create entry points),
// in which case each action falls back to its role-only rule.
type Policy interface {
	Can(d *Decision, actor *models.User, action Action, resource any) (bool, error)
}

// Registry maps resource type names to their policies.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry creates an empty Registry ready to register policies.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[string]Policy)}
}

// Register adds a policy for a given resource type (e.g. "gallery").
// Overwrites any existing policy for that type.
func (r *Registry) Register(resourceType string, p Policy) {
	r.policies[resourceType] = p
}

// Can evaluates the policy registered for resourceType. A nil actor is
// denied outright: policies only ever decide for authenticated callers
// (guest access exists solely through the view-gallery gate).
func (r *Registry) Can(d *Decision, actor *models.User, resourceType string, action Action, resource any) (bool, error) {
	p, ok := r.policies[resourceType]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNoPolicyDefined, resourceType)
	}
	if actor == nil {
		return false, nil
	}
	return p.Can(d, actor, action, resource)
}
