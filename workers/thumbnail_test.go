package workers

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/escolaranieri/galeriabackend/media"
	"github.com/escolaranieri/galeriabackend/models"
)

type thumbResult struct {
	imageID   uint
	thumbPath *string
	width     *int
	height    *int
	takenAt   *int64
	taskErr   error
}

// stubImageRepo records the worker's repository calls so tests can assert
// the task lifecycle without a database.
type stubImageRepo struct {
	images          map[uint]*models.Image
	needingWork      []models.Image
	processingMarks []uint
	results         []thumbResult
}

func newStubImageRepo(images ...*models.Image) *stubImageRepo {
	repo := &stubImageRepo{images: make(map[uint]*models.Image)}
	for _, img := range images {
		repo.images[img.ID] = img
	}
	return repo
}

func (s *stubImageRepo) Create(image *models.Image) error { return nil }

func (s *stubImageRepo) GetByID(id uint) (*models.Image, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, fmt.Errorf("image %d not found", id)
	}
	return img, nil
}

func (s *stubImageRepo) ListByGalleryID(galleryID uint) ([]models.Image, error) { return nil, nil }
func (s *stubImageRepo) Update(image *models.Image) error                       { return nil }
func (s *stubImageRepo) Delete(id uint) error                                   { return nil }

func (s *stubImageRepo) MarkThumbnailProcessing(imageID uint) error {
	s.processingMarks = append(s.processingMarks, imageID)
	return nil
}

func (s *stubImageRepo) SetThumbnailResult(imageID uint, thumbPath *string, width, height *int, takenAt *int64, taskErr error) error {
	s.results = append(s.results, thumbResult{imageID, thumbPath, width, height, takenAt, taskErr})
	return nil
}

func (s *stubImageRepo) GetImagesRequiringProcessing() ([]models.Image, error) {
	return s.needingWork, nil
}

// newIdleGenerator builds a generator without worker goroutines so queue
// state can be inspected deterministically.
func newIdleGenerator(repo *stubImageRepo, store media.Store, queueSize int) *ThumbnailGenerator {
	return &ThumbnailGenerator{
		JobQueue:  make(chan ThumbnailJob, queueSize),
		ImageRepo: repo,
		Store:     store,
		Processor: media.NewProcessor(store),
		MaxSize:   200,
		StopChan:  make(chan struct{}),
		Pending:   make(map[uint]bool),
	}
}

func newTestStore(t *testing.T) (media.Store, string) {
	t.Helper()
	base := t.TempDir()
	store, err := media.NewLocalStorage(base, map[media.AssetType]string{
		media.AssetTypeOriginal:  "originals",
		media.AssetTypeThumbnail: "thumbnails",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return store, base
}

func TestQueueJobDeduplicates(t *testing.T) {
	store, _ := newTestStore(t)
	tg := newIdleGenerator(newStubImageRepo(), store, 4)

	if !tg.QueueJob(ThumbnailJob{ImageID: 7}) {
		t.Fatal("first queue attempt should succeed")
	}
	if tg.QueueJob(ThumbnailJob{ImageID: 7}) {
		t.Error("duplicate job for the same image should be dropped")
	}
	if len(tg.JobQueue) != 1 {
		t.Errorf("expected 1 queued job, got %d", len(tg.JobQueue))
	}
}

func TestQueueJobDropsWhenQueueFull(t *testing.T) {
	store, _ := newTestStore(t)
	tg := newIdleGenerator(newStubImageRepo(), store, 1)

	if !tg.QueueJob(ThumbnailJob{ImageID: 1}) {
		t.Fatal("first queue attempt should succeed")
	}
	if tg.QueueJob(ThumbnailJob{ImageID: 2}) {
		t.Error("job should be dropped when the queue is full")
	}
	tg.Mutex.Lock()
	pending := tg.Pending[2]
	tg.Mutex.Unlock()
	if pending {
		t.Error("dropped job must not stay marked as pending")
	}
}

func TestRequeuePending(t *testing.T) {
	store, _ := newTestStore(t)
	repo := newStubImageRepo()
	repo.needingWork = []models.Image{{ID: 3}, {ID: 4}}
	tg := newIdleGenerator(repo, store, 4)

	tg.RequeuePending()

	if len(tg.JobQueue) != 2 {
		t.Fatalf("expected 2 requeued jobs, got %d", len(tg.JobQueue))
	}
}

func TestProcessJobGeneratesThumbnail(t *testing.T) {
	store, base := newTestStore(t)

	originalDir := filepath.Join(base, "originals", "5")
	if err := os.MkdirAll(originalDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := imaging.New(800, 600, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	if err := imaging.Save(src, filepath.Join(originalDir, "photo.jpg")); err != nil {
		t.Fatalf("save original: %v", err)
	}

	repo := newStubImageRepo(&models.Image{ID: 5, OriginalPath: "originals/5/photo.jpg"})
	tg := newIdleGenerator(repo, store, 1)

	tg.processJob(ThumbnailJob{ImageID: 5})

	if len(repo.processingMarks) != 1 || repo.processingMarks[0] != 5 {
		t.Fatalf("expected image 5 marked processing, got %v", repo.processingMarks)
	}
	if len(repo.results) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(repo.results))
	}
	res := repo.results[0]
	if res.taskErr != nil {
		t.Fatalf("unexpected task error: %v", res.taskErr)
	}
	if res.thumbPath == nil {
		t.Fatal("expected a thumbnail path")
	}
	fullThumb, err := store.GetFullPath(*res.thumbPath)
	if err != nil {
		t.Fatalf("GetFullPath(%s): %v", *res.thumbPath, err)
	}
	thumb, err := imaging.Open(fullThumb)
	if err != nil {
		t.Fatalf("open generated thumbnail: %v", err)
	}
	if w := thumb.Bounds().Dx(); w != tg.MaxSize {
		t.Errorf("expected thumbnail width %d, got %d", tg.MaxSize, w)
	}
	if res.width == nil || *res.width != 800 || res.height == nil || *res.height != 600 {
		t.Errorf("expected original dimensions 800x600 recorded, got %v x %v", res.width, res.height)
	}
	if res.takenAt != nil {
		t.Errorf("expected no taken_at for an image without EXIF, got %v", *res.takenAt)
	}
}

func TestProcessJobRecordsMissingOriginal(t *testing.T) {
	store, _ := newTestStore(t)
	repo := newStubImageRepo(&models.Image{ID: 9, OriginalPath: "originals/9/gone.jpg"})
	tg := newIdleGenerator(repo, store, 1)

	tg.processJob(ThumbnailJob{ImageID: 9})

	if len(repo.results) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(repo.results))
	}
	res := repo.results[0]
	if res.taskErr == nil {
		t.Error("expected an error result for a missing original")
	}
	if res.thumbPath != nil {
		t.Errorf("expected no thumbnail path, got %s", *res.thumbPath)
	}
}
