package permissions

import (
	"github.com/escolaranieri/galeriabackend/models"
)

// MembershipSource supplies role and group associations when they are not
// already loaded on an entity, plus gallery resolution for image checks.
// Implementations read durable storage; the engine never writes through it.
// GalleryByID returns (nil, nil) when no such gallery exists; a missing
// gallery is an authorization deny, not an error.
type MembershipSource interface {
	RolesByUserID(userID uint) ([]models.Role, error)
	GroupsByUserID(userID uint) ([]models.Group, error)
	GroupsByGalleryID(galleryID uint) ([]models.Group, error)
	GalleryByID(galleryID uint) (*models.Gallery, error)
}

// Decision carries the memoized membership lookups for a single
// authorization decision. It must not outlive the request that created it:
// membership can change between requests and has to be re-resolved.
type Decision struct {
	source MembershipSource

	roleNames     map[uint][]string
	userGroups    map[uint]map[uint]struct{}
	galleryGroups map[uint]map[uint]struct{}
	galleries     map[uint]*models.Gallery
}

// NewDecision creates the lookup scope for one authorization decision.
// source may be nil when all entities arrive with their associations
// preloaded (e.g. in tests); unloaded associations then resolve as empty.
func NewDecision(source MembershipSource) *Decision {
	return &Decision{
		source:        source,
		roleNames:     make(map[uint][]string),
		userGroups:    make(map[uint]map[uint]struct{}),
		galleryGroups: make(map[uint]map[uint]struct{}),
		galleries:     make(map[uint]*models.Gallery),
	}
}

// HasRole reports whether the user holds at least one of the given role
// names. A nil user never holds a role.
func (d *Decision) HasRole(user *models.User, names ...string) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.Roles != nil {
		return user.HasRole(names...), nil
	}

	roleNames, ok := d.roleNames[user.ID]
	if !ok {
		if d.source == nil {
			roleNames = nil
		} else {
			roles, err := d.source.RolesByUserID(user.ID)
			if err != nil {
				return false, err
			}
			roleNames = make([]string, 0, len(roles))
			for _, role := range roles {
				roleNames = append(roleNames, role.Name)
			}
		}
		d.roleNames[user.ID] = roleNames
	}

	for _, held := range roleNames {
		for _, name := range names {
			if held == name {
				return true, nil
			}
		}
	}
	return false, nil
}

// UserGroupIDs returns the set of group ids the user belongs to.
func (d *Decision) UserGroupIDs(user *models.User) (map[uint]struct{}, error) {
	if user == nil {
		return nil, nil
	}
	if user.Groups != nil {
		return idSet(user.GroupIDs()), nil
	}

	set, ok := d.userGroups[user.ID]
	if !ok {
		set = make(map[uint]struct{})
		if d.source != nil {
			groups, err := d.source.GroupsByUserID(user.ID)
			if err != nil {
				return nil, err
			}
			for _, group := range groups {
				set[group.ID] = struct{}{}
			}
		}
		d.userGroups[user.ID] = set
	}
	return set, nil
}

// GalleryGroupIDs returns the set of group ids the gallery is linked to.
func (d *Decision) GalleryGroupIDs(gallery *models.Gallery) (map[uint]struct{}, error) {
	if gallery == nil {
		return nil, nil
	}
	if gallery.Groups != nil {
		return idSet(gallery.GroupIDs()), nil
	}

	set, ok := d.galleryGroups[gallery.ID]
	if !ok {
		set = make(map[uint]struct{})
		if d.source != nil {
			groups, err := d.source.GroupsByGalleryID(gallery.ID)
			if err != nil {
				return nil, err
			}
			for _, group := range groups {
				set[group.ID] = struct{}{}
			}
		}
		d.galleryGroups[gallery.ID] = set
	}
	return set, nil
}

// GroupsIntersect reports whether the user shares at least one group with
// the gallery.
func (d *Decision) GroupsIntersect(user *models.User, gallery *models.Gallery) (bool, error) {
	userSet, err := d.UserGroupIDs(user)
	if err != nil {
		return false, err
	}
	if len(userSet) == 0 {
		return false, nil
	}
	gallerySet, err := d.GalleryGroupIDs(gallery)
	if err != nil {
		return false, err
	}
	for id := range gallerySet {
		if _, ok := userSet[id]; ok {
			return true, nil
		}
	}
	return false, nil
}

// GalleryOf resolves the gallery an image belongs to. Returns nil (not an
// error) when the gallery cannot be found: absence of context denies, it
// never fails open.
func (d *Decision) GalleryOf(image *models.Image) (*models.Gallery, error) {
	if image == nil {
		return nil, nil
	}
	if image.Gallery != nil {
		return image.Gallery, nil
	}
	if image.GalleryID == 0 || d.source == nil {
		return nil, nil
	}

	if gallery, ok := d.galleries[image.GalleryID]; ok {
		return gallery, nil
	}
	gallery, err := d.source.GalleryByID(image.GalleryID)
	if err != nil {
		return nil, err
	}
	d.galleries[image.GalleryID] = gallery
	return gallery, nil
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
