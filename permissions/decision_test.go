package permissions_test

import (
	"testing"

	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/permissions"
)

// countingSource records how often each lookup runs, to verify that a
// decision never fetches the same entity's associations twice.
type countingSource struct {
	roleCalls    int
	groupCalls   int
	galleryCalls int
	lookupCalls  int

	roles         map[uint][]models.Role
	groups        map[uint][]models.Group
	galleryGroups map[uint][]models.Group
	galleries     map[uint]*models.Gallery
}

func (s *countingSource) RolesByUserID(userID uint) ([]models.Role, error) {
	s.roleCalls++
	return s.roles[userID], nil
}

func (s *countingSource) GroupsByUserID(userID uint) ([]models.Group, error) {
	s.groupCalls++
	return s.groups[userID], nil
}

func (s *countingSource) GroupsByGalleryID(galleryID uint) ([]models.Group, error) {
	s.galleryCalls++
	return s.galleryGroups[galleryID], nil
}

func (s *countingSource) GalleryByID(galleryID uint) (*models.Gallery, error) {
	s.lookupCalls++
	return s.galleries[galleryID], nil
}

func TestDecision_MemoizesRoleLookups(t *testing.T) {
	source := &countingSource{
		roles: map[uint][]models.Role{1: {{Name: models.RoleFotografo}}},
	}
	d := permissions.NewDecision(source)
	actor := &models.User{ID: 1} // associations not loaded

	for i := 0; i < 3; i++ {
		got, err := d.HasRole(actor, models.RoleFotografo)
		mustCheck(t, got, err, true)
	}
	if source.roleCalls != 1 {
		t.Errorf("expected 1 role fetch, got %d", source.roleCalls)
	}

	got, err := d.HasRole(actor, models.RoleAdmin)
	mustCheck(t, got, err, false)
	if source.roleCalls != 1 {
		t.Errorf("expected memoized roles to be reused, got %d fetches", source.roleCalls)
	}
}

func TestDecision_MemoizesGroupLookups(t *testing.T) {
	source := &countingSource{
		groups:        map[uint][]models.Group{1: {{ID: 7}}},
		galleryGroups: map[uint][]models.Group{10: {{ID: 7}, {ID: 8}}},
	}
	d := permissions.NewDecision(source)
	actor := &models.User{ID: 1}
	g := &models.Gallery{ID: 10, UserID: 2}

	for i := 0; i < 3; i++ {
		got, err := d.GroupsIntersect(actor, g)
		mustCheck(t, got, err, true)
	}
	if source.groupCalls != 1 || source.galleryCalls != 1 {
		t.Errorf("expected 1 fetch per entity, got user=%d gallery=%d", source.groupCalls, source.galleryCalls)
	}
}

func TestDecision_SeparateDecisionsRefetch(t *testing.T) {
	source := &countingSource{
		roles: map[uint][]models.Role{1: {{Name: models.RoleAdmin}}},
	}
	actor := &models.User{ID: 1}

	d1 := permissions.NewDecision(source)
	if _, err := d1.HasRole(actor, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	d2 := permissions.NewDecision(source)
	if _, err := d2.HasRole(actor, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if source.roleCalls != 2 {
		t.Errorf("expected each decision to re-resolve membership, got %d fetches", source.roleCalls)
	}
}

func TestDecision_PreloadedAssociationsSkipSource(t *testing.T) {
	source := &countingSource{}
	d := permissions.NewDecision(source)
	actor := user(1, []*models.Role{role(models.RoleAdmin)}, []*models.Group{group(3)})

	got, err := d.HasRole(actor, models.RoleAdmin)
	mustCheck(t, got, err, true)
	set, err := d.UserGroupIDs(actor)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := set[3]; !ok {
		t.Error("expected preloaded group 3 in set")
	}
	if source.roleCalls != 0 || source.groupCalls != 0 {
		t.Errorf("expected no source fetches for preloaded entities, got roles=%d groups=%d", source.roleCalls, source.groupCalls)
	}
}

func TestDecision_GalleryOfResolvesAndMemoizes(t *testing.T) {
	g := &models.Gallery{ID: 10, UserID: 1, Groups: []*models.Group{}}
	source := &countingSource{galleries: map[uint]*models.Gallery{10: g}}
	d := permissions.NewDecision(source)
	image := &models.Image{ID: 5, GalleryID: 10}

	for i := 0; i < 2; i++ {
		resolved, err := d.GalleryOf(image)
		if err != nil {
			t.Fatal(err)
		}
		if resolved != g {
			t.Fatalf("expected gallery %v, got %v", g, resolved)
		}
	}
	if source.lookupCalls != 1 {
		t.Errorf("expected 1 gallery fetch, got %d", source.lookupCalls)
	}
}

func TestDecision_GalleryOfMissingIsNilNotError(t *testing.T) {
	source := &countingSource{galleries: map[uint]*models.Gallery{}}
	d := permissions.NewDecision(source)
	image := &models.Image{ID: 5, GalleryID: 99}

	resolved, err := d.GalleryOf(image)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != nil {
		t.Errorf("expected nil gallery, got %v", resolved)
	}
}
