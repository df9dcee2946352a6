package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// GroupPolicy governs groups. Every authenticated user may list and view
// groups; only admins mutate them.
type GroupPolicy struct{}

func (GroupPolicy) Can(d *Decision, actor *models.User, action Action, resource any) (bool, error) {
	if resource != nil {
		if _, ok := resource.(*models.Group); !ok {
			return false, fmt.Errorf("%w: group policy got %T", ErrInvalidResource, resource)
		}
	}

	switch action {
	case ActionViewAny, ActionView:
		return true, nil
	case ActionCreate, ActionUpdate, ActionDelete:
		return d.HasRole(actor, models.RoleAdmin)
	default:
		return false, fmt.Errorf("%w: group.%s", ErrUnknownAction, action)
	}
}
