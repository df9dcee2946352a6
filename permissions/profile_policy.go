package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// ProfilePolicy governs profiles. Any authenticated user may view any
// profile; only the profile's owner or an admin may update it. Profiles are
// never created or deleted on their own, so those actions don't exist here.
type ProfilePolicy struct{}

func (ProfilePolicy) Can(d *Decision, actor *models.User, action Action, resource any) (bool, error) {
	var profile *models.Profile
	if resource != nil {
		p, ok := resource.(*models.Profile)
		if !ok {
			return false, fmt.Errorf("%w: profile policy got %T", ErrInvalidResource, resource)
		}
		profile = p
	}

	switch action {
	case ActionView:
		return true, nil
	case ActionUpdate:
		isAdmin, err := d.HasRole(actor, models.RoleAdmin)
		if err != nil {
			return false, err
		}
		if isAdmin {
			return true, nil
		}
		return profile != nil && actor.ID == profile.UserID, nil
	default:
		return false, fmt.Errorf("%w: profile.%s", ErrUnknownAction, action)
	}
}
