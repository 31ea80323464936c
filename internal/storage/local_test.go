package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root, "/media/")
	ctx := context.Background()

	key := "uploads/record/abc.jpg"
	if err := s.Save(ctx, key, "image/jpeg", strings.NewReader("data")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "uploads", "record", "abc.jpg"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("expected data, got %q", got)
	}

	if url := s.URL(key); url != "/media/uploads/record/abc.jpg" {
		t.Errorf("unexpected URL %s", url)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "uploads", "record", "abc.jpg")); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err = %v", err)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLocalStorage_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(filepath.Join(root, "media"), "/media")

	if err := s.Save(context.Background(), "../../escape.txt", "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "media", "escape.txt")); err != nil {
		t.Errorf("expected file to stay inside root: %v", err)
	}

	if err := s.Save(context.Background(), "/", "text/plain", strings.NewReader("x")); err == nil {
		t.Error("expected empty key to be rejected")
	}
}
