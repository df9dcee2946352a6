package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// UserPolicy governs user account management. Admins manage everyone;
// users may view and update themselves; nobody deletes their own account.
type UserPolicy struct{}

func (UserPolicy) Can(d *Decision, actor *models.User, action Action, resource any) (bool, error) {
	var target *models.User
	if resource != nil {
		t, ok := resource.(*models.User)
		if !ok {
			return false, fmt.Errorf("%w: user policy got %T", ErrInvalidResource, resource)
		}
		target = t
	}

	switch action {
	case ActionViewAny, ActionCreate:
		return d.HasRole(actor, models.RoleAdmin)
	case ActionView, ActionUpdate:
		isAdmin, err := d.HasRole(actor, models.RoleAdmin)
		if err != nil {
			return false, err
		}
		if isAdmin {
			return true, nil
		}
		return target != nil && actor.ID == target.ID, nil
	case ActionDelete:
		isAdmin, err := d.HasRole(actor, models.RoleAdmin)
		if err != nil || !isAdmin {
			return false, err
		}
		// admins never delete themselves, even though the role check passes
		return target == nil || actor.ID != target.ID, nil
	default:
		return false, fmt.Errorf("%w: user.%s", ErrUnknownAction, action)
	}
}
