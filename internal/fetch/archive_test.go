package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestArchiveFetcherReadsTile(t *testing.T) {
	dir := t.TempDir()
	tileDir := filepath.Join(dir, "4", "2")
	if err := os.MkdirAll(tileDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	want := []byte("fake-png-bytes")
	if err := os.WriteFile(filepath.Join(tileDir, "3.png"), want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f := NewArchiveFetcher(dir, "png")
	got, err := f.Fetch(context.Background(), 4, 2, 3)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Fetch = %q, want %q", got, want)
	}
}

func TestArchiveFetcherMissingTile(t *testing.T) {
	dir := t.TempDir()
	f := NewArchiveFetcher(dir, "png")
	_, err := f.Fetch(context.Background(), 1, 1, 1)
	if err != ErrNotFound {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}
