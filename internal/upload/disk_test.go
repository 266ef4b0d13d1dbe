package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDiskStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store
}

func TestDiskStore_SaveAndDelete(t *testing.T) {
	store := newTestDiskStore(t)
	ctx := context.Background()

	url, err := store.Save(ctx, "avatars/abc.png", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url != "/uploads/avatars/abc.png" {
		t.Errorf("Save() url = %q, want /uploads/avatars/abc.png", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "avatars", "abc.png"))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("saved content = %q", data)
	}

	if err := store.Delete(ctx, "avatars/abc.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "avatars", "abc.png")); !os.IsNotExist(err) {
		t.Error("Delete() left the file behind")
	}
}

func TestDiskStore_DeleteMissingFileIsNoop(t *testing.T) {
	store := newTestDiskStore(t)

	if err := store.Delete(context.Background(), "avatars/never-existed.png"); err != nil {
		t.Errorf("Delete() of missing file error = %v", err)
	}
}

func TestDiskStore_RejectsEscapingKeys(t *testing.T) {
	store := newTestDiskStore(t)

	_, err := store.Save(context.Background(), "../outside.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("Save() accepted a key escaping the root directory")
	}
}
