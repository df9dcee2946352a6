package repository_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/escolaranieri/galeriabackend/database"
	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/repository"
)

const testPublicGroup = "free"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, repo repository.UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email}
	if err := user.SetPassword("secret-password"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestUserCreateAttachesProfileAndDefaultGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewGormUserRepository(db, testPublicGroup)

	user := createTestUser(t, repo, "alice@example.com")

	loaded, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.Profile == nil {
		t.Fatal("expected a profile to be created with the user")
	}
	if loaded.Profile.UserID != user.ID {
		t.Errorf("profile user id = %d, want %d", loaded.Profile.UserID, user.ID)
	}
	if len(loaded.Groups) != 1 || loaded.Groups[0].Name != testPublicGroup {
		t.Fatalf("expected new user to be in group %q, got %+v", testPublicGroup, loaded.Groups)
	}
}

func TestAddRoleToUserIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	roleRepo := repository.NewGormRoleRepository(db)

	user := createTestUser(t, userRepo, "bob@example.com")
	role := &models.Role{Name: models.RoleFotografo}
	if err := roleRepo.Create(role); err != nil {
		t.Fatalf("failed to create role: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := userRepo.AddRoleToUser(user.ID, role.ID); err != nil {
			t.Fatalf("AddRoleToUser attempt %d failed: %v", i+1, err)
		}
	}

	var count int64
	if err := db.Model(&models.UserRole{}).Where("user_id = ? AND role_id = ?", user.ID, role.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 role_user row, got %d", count)
	}
}

func TestAddGroupToGalleryIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	galleryRepo := repository.NewGormGalleryRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)

	owner := createTestUser(t, userRepo, "owner@example.com")
	gallery := &models.Gallery{Title: "Festa Junina", UserID: owner.ID, EventDate: time.Now()}
	if err := galleryRepo.Create(gallery); err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}
	group := &models.Group{Name: "turma-2026"}
	if err := groupRepo.Create(group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := galleryRepo.AddGroupToGallery(gallery.ID, group.ID); err != nil {
			t.Fatalf("AddGroupToGallery attempt %d failed: %v", i+1, err)
		}
	}

	var count int64
	if err := db.Model(&models.GalleryGroup{}).Where("gallery_id = ?", gallery.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 gallery_group row, got %d", count)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	galleryRepo := repository.NewGormGalleryRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)
	imageRepo := repository.NewGormImageRepository(db)

	user := createTestUser(t, userRepo, "carol@example.com")
	gallery := &models.Gallery{Title: "Formatura", UserID: user.ID, EventDate: time.Now()}
	if err := galleryRepo.Create(gallery); err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}
	group := &models.Group{Name: "formandos"}
	if err := groupRepo.Create(group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	if err := galleryRepo.AddGroupToGallery(gallery.ID, group.ID); err != nil {
		t.Fatalf("failed to link group: %v", err)
	}
	img := &models.Image{GalleryID: gallery.ID, OriginalPath: "originals/1/a.jpg", Filename: "a.jpg", ThumbnailStatus: models.ThumbStatusPending}
	if err := imageRepo.Create(img); err != nil {
		t.Fatalf("failed to create image: %v", err)
	}

	if err := userRepo.Delete(user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := userRepo.GetByID(user.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected user to be gone, got err=%v", err)
	}
	if _, err := galleryRepo.GetByID(gallery.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected owned gallery to be gone, got err=%v", err)
	}
	if _, err := imageRepo.GetByID(img.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected gallery image to be gone, got err=%v", err)
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected profile to be gone, found %d rows", count)
	}
	if err := db.Model(&models.GalleryGroup{}).Where("gallery_id = ?", gallery.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected gallery group links to be gone, found %d rows", count)
	}
}

func TestImageThumbnailLifecycle(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	galleryRepo := repository.NewGormGalleryRepository(db)
	imageRepo := repository.NewGormImageRepository(db)

	owner := createTestUser(t, userRepo, "photo@example.com")
	gallery := &models.Gallery{Title: "Passeio", UserID: owner.ID, EventDate: time.Now()}
	if err := galleryRepo.Create(gallery); err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}
	img := &models.Image{GalleryID: gallery.ID, OriginalPath: "originals/1/b.jpg", Filename: "b.jpg", ThumbnailStatus: models.ThumbStatusPending}
	if err := imageRepo.Create(img); err != nil {
		t.Fatalf("failed to create image: %v", err)
	}

	pending, err := imageRepo.GetImagesRequiringProcessing()
	if err != nil {
		t.Fatalf("GetImagesRequiringProcessing failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != img.ID {
		t.Fatalf("expected the new image to require processing, got %+v", pending)
	}

	if err := imageRepo.MarkThumbnailProcessing(img.ID); err != nil {
		t.Fatalf("MarkThumbnailProcessing failed: %v", err)
	}

	thumbPath := "thumbnails/uuid.jpg"
	width, height := 1200, 800
	takenAt := time.Now().Add(-24 * time.Hour).Unix()
	if err := imageRepo.SetThumbnailResult(img.ID, &thumbPath, &width, &height, &takenAt, nil); err != nil {
		t.Fatalf("SetThumbnailResult failed: %v", err)
	}

	done, err := imageRepo.GetByID(img.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if done.ThumbnailStatus != models.ThumbStatusDone {
		t.Errorf("status = %q, want %q", done.ThumbnailStatus, models.ThumbStatusDone)
	}
	if done.ThumbnailPath == nil || *done.ThumbnailPath != thumbPath {
		t.Errorf("thumbnail path = %v, want %q", done.ThumbnailPath, thumbPath)
	}
	if done.Width == nil || *done.Width != width || done.Height == nil || *done.Height != height {
		t.Errorf("dimensions = %v x %v, want %d x %d", done.Width, done.Height, width, height)
	}
	if done.TakenAt == nil || *done.TakenAt != takenAt {
		t.Errorf("taken_at = %v, want %d", done.TakenAt, takenAt)
	}

	remaining, err := imageRepo.GetImagesRequiringProcessing()
	if err != nil {
		t.Fatalf("GetImagesRequiringProcessing failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no images requiring processing, got %d", len(remaining))
	}
}

func TestSetThumbnailResultRecordsError(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	galleryRepo := repository.NewGormGalleryRepository(db)
	imageRepo := repository.NewGormImageRepository(db)

	owner := createTestUser(t, userRepo, "photo2@example.com")
	gallery := &models.Gallery{Title: "Teatro", UserID: owner.ID, EventDate: time.Now()}
	if err := galleryRepo.Create(gallery); err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}
	img := &models.Image{GalleryID: gallery.ID, OriginalPath: "originals/1/c.jpg", Filename: "c.jpg", ThumbnailStatus: models.ThumbStatusPending}
	if err := imageRepo.Create(img); err != nil {
		t.Fatalf("failed to create image: %v", err)
	}

	if err := imageRepo.SetThumbnailResult(img.ID, nil, nil, nil, nil, errors.New("decode failed")); err != nil {
		t.Fatalf("SetThumbnailResult failed: %v", err)
	}

	failed, err := imageRepo.GetByID(img.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if failed.ThumbnailStatus != models.ThumbStatusError {
		t.Errorf("status = %q, want %q", failed.ThumbnailStatus, models.ThumbStatusError)
	}
	if failed.ThumbnailError == nil || *failed.ThumbnailError != "decode failed" {
		t.Errorf("thumbnail error = %v, want 'decode failed'", failed.ThumbnailError)
	}
}

func TestMembershipSourceLookups(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	roleRepo := repository.NewGormRoleRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)
	galleryRepo := repository.NewGormGalleryRepository(db)

	user := createTestUser(t, userRepo, "dave@example.com")
	role := &models.Role{Name: models.RoleAdmin}
	if err := roleRepo.Create(role); err != nil {
		t.Fatalf("failed to create role: %v", err)
	}
	if err := userRepo.AddRoleToUser(user.ID, role.ID); err != nil {
		t.Fatalf("AddRoleToUser failed: %v", err)
	}

	gallery := &models.Gallery{Title: "Jogos", UserID: user.ID, EventDate: time.Now()}
	if err := galleryRepo.Create(gallery); err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}
	group, err := groupRepo.GetByName(testPublicGroup)
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if err := galleryRepo.AddGroupToGallery(gallery.ID, group.ID); err != nil {
		t.Fatalf("AddGroupToGallery failed: %v", err)
	}

	source := repository.NewGormMembershipSource(db)

	roles, err := source.RolesByUserID(user.ID)
	if err != nil {
		t.Fatalf("RolesByUserID failed: %v", err)
	}
	if len(roles) != 1 || roles[0].Name != models.RoleAdmin {
		t.Errorf("roles = %+v, want single admin role", roles)
	}

	groups, err := source.GroupsByUserID(user.ID)
	if err != nil {
		t.Fatalf("GroupsByUserID failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != testPublicGroup {
		t.Errorf("groups = %+v, want single %q group", groups, testPublicGroup)
	}

	galleryGroups, err := source.GroupsByGalleryID(gallery.ID)
	if err != nil {
		t.Fatalf("GroupsByGalleryID failed: %v", err)
	}
	if len(galleryGroups) != 1 || galleryGroups[0].ID != group.ID {
		t.Errorf("gallery groups = %+v, want group %d", galleryGroups, group.ID)
	}

	loaded, err := source.GalleryByID(gallery.ID)
	if err != nil {
		t.Fatalf("GalleryByID failed: %v", err)
	}
	if loaded == nil || loaded.ID != gallery.ID {
		t.Fatalf("GalleryByID = %+v, want gallery %d", loaded, gallery.ID)
	}

	missing, err := source.GalleryByID(99999)
	if err != nil {
		t.Fatalf("GalleryByID for missing gallery returned error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil gallery for missing id, got %+v", missing)
	}
}

func TestGallerySearchFilters(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db, testPublicGroup)
	galleryRepo := repository.NewGormGalleryRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)

	owner := createTestUser(t, userRepo, "erin@example.com")
	other := createTestUser(t, userRepo, "frank@example.com")

	group := &models.Group{Name: "sexto-ano"}
	if err := groupRepo.Create(group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	june := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	g1 := &models.Gallery{Title: "Festa Junina 2026", UserID: owner.ID, EventDate: june}
	g2 := &models.Gallery{Title: "Volta as Aulas", UserID: owner.ID, EventDate: august}
	g3 := &models.Gallery{Title: "Festa de Encerramento", UserID: other.ID, EventDate: august}
	for _, g := range []*models.Gallery{g1, g2, g3} {
		if err := galleryRepo.Create(g); err != nil {
			t.Fatalf("failed to create gallery %q: %v", g.Title, err)
		}
	}
	if err := galleryRepo.AddGroupToGallery(g1.ID, group.ID); err != nil {
		t.Fatalf("AddGroupToGallery failed: %v", err)
	}

	byOwner, err := galleryRepo.Search(database.GallerySearchOptions{OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("Search by owner failed: %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("search by owner returned %d galleries, want 2", len(byOwner))
	}

	byTitle, err := galleryRepo.Search(database.GallerySearchOptions{TitleLike: "Festa"})
	if err != nil {
		t.Fatalf("Search by title failed: %v", err)
	}
	if len(byTitle) != 2 {
		t.Errorf("search by title returned %d galleries, want 2", len(byTitle))
	}

	byGroup, err := galleryRepo.Search(database.GallerySearchOptions{GroupID: group.ID})
	if err != nil {
		t.Fatalf("Search by group failed: %v", err)
	}
	if len(byGroup) != 1 || byGroup[0].ID != g1.ID {
		t.Errorf("search by group = %+v, want only gallery %d", byGroup, g1.ID)
	}

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	byDate, err := galleryRepo.Search(database.GallerySearchOptions{EventFrom: &from})
	if err != nil {
		t.Fatalf("Search by date failed: %v", err)
	}
	if len(byDate) != 2 {
		t.Errorf("search by event_from returned %d galleries, want 2", len(byDate))
	}

	sorted, err := galleryRepo.Search(database.GallerySearchOptions{SortOrder: database.SortEventDateDesc})
	if err != nil {
		t.Fatalf("Search with sort failed: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("search returned %d galleries, want 3", len(sorted))
	}
	if sorted[len(sorted)-1].ID != g1.ID {
		t.Errorf("expected oldest gallery %d last, got order %+v", g1.ID, sorted)
	}
}
