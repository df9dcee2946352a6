package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// GalleryPolicy governs galleries for authenticated users. Photographers
// see everything and create; mutation belongs to the owning photographer;
// plain members see a gallery when they share a group with it. Guest access
// to public galleries lives in the view-gallery gate, not here.
type GalleryPolicy struct{}

func (GalleryPolicy) Can(d *Decision, actor *models.User, action Action, resource any) (bool, error) {
	var gallery *models.Gallery
	if resource != nil {
		g, ok := resource.(*models.Gallery)
		if !ok {
			return false, fmt.Errorf("%w: gallery policy got %T", ErrInvalidResource, resource)
		}
		gallery = g
	}

	switch action {
	case ActionViewAny, ActionCreate:
		return d.HasRole(actor, models.RoleFotografo)
	case ActionView:
		isFotografo, err := d.HasRole(actor, models.RoleFotografo)
		if err != nil {
			return false, err
		}
		if isFotografo {
			return true, nil
		}
		if gallery == nil {
			return false, nil
		}
		if actor.ID == gallery.UserID {
			return true, nil
		}
		return d.GroupsIntersect(actor, gallery)
	case ActionUpdate, ActionDelete, ActionManageGallery:
		isFotografo, err := d.HasRole(actor, models.RoleFotografo)
		if err != nil || !isFotografo {
			return false, err
		}
		if gallery == nil {
			// resource-independent entry point: role-only check
			return true, nil
		}
		return actor.ID == gallery.UserID, nil
	default:
		return false, fmt.Errorf("%w: gallery.%s", ErrUnknownAction, action)
	}
}
