package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// ImagePolicy governs images through their owning gallery. Viewing an image
// follows the gallery view rule; creating takes the target gallery as the
// resource (the image does not exist yet); updating and deleting require
// the photographer owning the image's gallery. An image whose gallery
// cannot be resolved is always denied.
type ImagePolicy struct{}

func (ImagePolicy) Can(d *Decision, actor *models.User, action Action, resource any) (bool, error) {
	switch action {
	case ActionCreate:
		var gallery *models.Gallery
		if resource != nil {
			g, ok := resource.(*models.Gallery)
			if !ok {
				return false, fmt.Errorf("%w: image create expects a gallery, got %T", ErrInvalidResource, resource)
			}
			gallery = g
		}
		isFotografo, err := d.HasRole(actor, models.RoleFotografo)
		if err != nil || !isFotografo {
			return false, err
		}
		if gallery == nil {
			// resource-independent entry point: role-only check
			return true, nil
		}
		return actor.ID == gallery.UserID, nil

	case ActionView, ActionUpdate, ActionDelete:
		var image *models.Image
		if resource != nil {
			img, ok := resource.(*models.Image)
			if !ok {
				return false, fmt.Errorf("%w: image policy got %T", ErrInvalidResource, resource)
			}
			image = img
		}
		if image == nil {
			return d.HasRole(actor, models.RoleFotografo)
		}

		gallery, err := d.GalleryOf(image)
		if err != nil {
			return false, err
		}
		if gallery == nil {
			return false, nil
		}

		isFotografo, err := d.HasRole(actor, models.RoleFotografo)
		if err != nil {
			return false, err
		}
		if action == ActionView {
			if isFotografo {
				return true, nil
			}
			if actor.ID == gallery.UserID {
				return true, nil
			}
			return d.GroupsIntersect(actor, gallery)
		}
		return isFotografo && actor.ID == gallery.UserID, nil

	default:
		return false, fmt.Errorf("%w: image.%s", ErrUnknownAction, action)
	}
}
