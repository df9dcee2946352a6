package media_test

import (
	"io"
	"strings"
	"testing"

	"github.com/escolaranieri/galeriabackend/media"
)

func newTestStore(t *testing.T) *media.LocalStorage {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypeOriginal:  "originals",
		media.AssetTypeThumbnail: "thumbnails",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	return store
}

func TestStoreSaveGetDelete(t *testing.T) {
	store := newTestStore(t)

	relPath, err := store.Save(media.AssetTypeOriginal, "12", "photo.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if relPath != "originals/12/photo.jpg" {
		t.Errorf("relative path = %q, want originals/12/photo.jpg", relPath)
	}

	reader, info, err := store.Get(relPath)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("content = %q", data)
	}
	if info.Size() != int64(len("fake image bytes")) {
		t.Errorf("size = %d", info.Size())
	}

	if err := store.Delete(relPath); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, _, err := store.Get(relPath); err == nil {
		t.Error("expected Get to fail after Delete")
	}

	// deleting a missing asset is not an error
	if err := store.Delete(relPath); err != nil {
		t.Errorf("second Delete returned error: %v", err)
	}
}

func TestStoreRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(media.AssetTypeOriginal, "../../etc", "passwd", strings.NewReader("x")); err == nil {
		t.Error("expected Save with traversal dir hint to fail")
	}
	if _, err := store.GetFullPath("../outside.txt"); err == nil {
		t.Error("expected GetFullPath with traversal to fail")
	}
}

func TestStoreRejectsUnconfiguredAssetType(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(media.AssetTypeUnknown, "", "x.bin", strings.NewReader("x")); err == nil {
		t.Error("expected Save for an unconfigured asset type to fail")
	}
}

func TestStoreRejectsEmptyFilename(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(media.AssetTypeOriginal, "", "", strings.NewReader("x")); err == nil {
		t.Error("expected Save with empty filename to fail")
	}
}

func TestIsRasterImage(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"IMG_0001.JPG", true},
		{"photo.jpeg", true},
		{"scan.png", true},
		{"anim.gif", true},
		{"raw.CR2", false},
		{"movie.mp4", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := media.IsRasterImage(tt.filename); got != tt.want {
			t.Errorf("IsRasterImage(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
