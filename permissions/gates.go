package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// Gate names, as referenced by route guards.
const (
	GateAdminOnly     = "admin-only"
	GateFotografoOnly = "fotografo-only"
	GateEditProfile   = "edit-profile"
	GateAccessGroup   = "access-group"
	GateCreateGallery = "create-gallery"
	GateManageGallery = "manage-gallery"
	GateManageImage   = "manage-image"
	GateViewGallery   = "view-gallery"
)

// Gates evaluates the named rules that are not tied to a single resource
// type. The id of the public group is resolved once and passed in
// explicitly; zero means no public group exists, in which case no gallery
// is ever treated as public.
type Gates struct {
	publicGroupID uint
}

func NewGates(publicGroupID uint) *Gates {
	return &Gates{publicGroupID: publicGroupID}
}

// PublicGroupID returns the id of the configured public group, or zero.
func (g *Gates) PublicGroupID() uint {
	return g.publicGroupID
}

// AdminOnly allows only users holding the admin role.
func (g *Gates) AdminOnly(d *Decision, actor *models.User) (bool, error) {
	if actor == nil {
		return false, nil
	}
	return d.HasRole(actor, models.RoleAdmin)
}

// FotografoOnly allows only users holding the fotografo role.
func (g *Gates) FotografoOnly(d *Decision, actor *models.User) (bool, error) {
	if actor == nil {
		return false, nil
	}
	return d.HasRole(actor, models.RoleFotografo)
}

// EditProfile allows a user to edit their own profile, or an admin to edit
// any. With no profile given it allows: every user may reach the edit
// screen for their own profile, the concrete check runs once it is loaded.
func (g *Gates) EditProfile(d *Decision, actor *models.User, profile *models.Profile) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if profile == nil {
		return true, nil
	}
	isAdmin, err := d.HasRole(actor, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	return isAdmin || actor.ID == profile.UserID, nil
}

// AccessGroup allows admins to access any group and members to access their
// own. With no group given only admins pass: the general listing and
// management entry point is restrictive by default.
func (g *Gates) AccessGroup(d *Decision, actor *models.User, group *models.Group) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if group == nil {
		return d.HasRole(actor, models.RoleAdmin)
	}
	isAdmin, err := d.HasRole(actor, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	userSet, err := d.UserGroupIDs(actor)
	if err != nil {
		return false, err
	}
	_, member := userSet[group.ID]
	return member, nil
}

// CreateGallery allows photographers to create galleries.
func (g *Gates) CreateGallery(d *Decision, actor *models.User) (bool, error) {
	return g.FotografoOnly(d, actor)
}

// ManageGallery allows a photographer to manage their own gallery. With no
// gallery given it reduces to the fotografo role check.
func (g *Gates) ManageGallery(d *Decision, actor *models.User, gallery *models.Gallery) (bool, error) {
	if actor == nil {
		return false, nil
	}
	isFotografo, err := d.HasRole(actor, models.RoleFotografo)
	if err != nil || !isFotografo {
		return false, err
	}
	if gallery == nil {
		return true, nil
	}
	return actor.ID == gallery.UserID, nil
}

// ManageImage allows a photographer to manage images in their own gallery.
// With an image given, its gallery decides; with only a gallery given
// (creation context), that gallery decides; with neither it reduces to the
// fotografo role check. A missing gallery denies.
func (g *Gates) ManageImage(d *Decision, actor *models.User, image *models.Image, gallery *models.Gallery) (bool, error) {
	if actor == nil {
		return false, nil
	}

	if image != nil {
		parent, err := d.GalleryOf(image)
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, nil
		}
		isFotografo, err := d.HasRole(actor, models.RoleFotografo)
		if err != nil {
			return false, err
		}
		return isFotografo && actor.ID == parent.UserID, nil
	}

	if gallery != nil {
		isFotografo, err := d.HasRole(actor, models.RoleFotografo)
		if err != nil {
			return false, err
		}
		return isFotografo && actor.ID == gallery.UserID, nil
	}

	return d.HasRole(actor, models.RoleFotografo)
}

// ViewGallery decides visibility of a single gallery, guests included.
// The public short-circuit must run first: a gallery linked to the public
// group is visible to everyone before any actor-dependent branch executes.
func (g *Gates) ViewGallery(d *Decision, actor *models.User, gallery *models.Gallery) (bool, error) {
	if gallery == nil {
		return false, nil
	}

	if g.publicGroupID != 0 {
		gallerySet, err := d.GalleryGroupIDs(gallery)
		if err != nil {
			return false, err
		}
		if _, public := gallerySet[g.publicGroupID]; public {
			return true, nil
		}
	}

	if actor == nil {
		return false, nil
	}

	isFotografo, err := d.HasRole(actor, models.RoleFotografo)
	if err != nil {
		return false, err
	}
	if isFotografo {
		return true, nil
	}

	if actor.ID == gallery.UserID {
		return true, nil
	}

	return d.GroupsIntersect(actor, gallery)
}

// Check dispatches a gate by name. Context arguments are matched by type;
// gates tolerate absent ones as documented per gate. An unknown gate name
// or an argument of an unexpected type is a configuration error.
func (g *Gates) Check(d *Decision, name string, actor *models.User, args ...any) (bool, error) {
	var (
		profile *models.Profile
		group   *models.Group
		gallery *models.Gallery
		image   *models.Image
	)
	for _, arg := range args {
		if arg == nil {
			continue
		}
		switch v := arg.(type) {
		case *models.Profile:
			profile = v
		case *models.Group:
			group = v
		case *models.Gallery:
			gallery = v
		case *models.Image:
			image = v
		default:
			return false, fmt.Errorf("%w: gate %q got argument of type %T", ErrInvalidCheck, name, arg)
		}
	}

	switch name {
	case GateAdminOnly:
		return g.AdminOnly(d, actor)
	case GateFotografoOnly:
		return g.FotografoOnly(d, actor)
	case GateEditProfile:
		return g.EditProfile(d, actor, profile)
	case GateAccessGroup:
		return g.AccessGroup(d, actor, group)
	case GateCreateGallery:
		return g.CreateGallery(d, actor)
	case GateManageGallery:
		return g.ManageGallery(d, actor, gallery)
	case GateManageImage:
		return g.ManageImage(d, actor, image, gallery)
	case GateViewGallery:
		return g.ViewGallery(d, actor, gallery)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownGate, name)
	}
}
