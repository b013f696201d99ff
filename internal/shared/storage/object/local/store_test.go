package local

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveOpenListDelete(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "resumes")
	store := New()

	if _, err := store.Save(ctx, dir, "a.txt", strings.NewReader("alpha")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, dir, "b.txt", strings.NewReader("beta")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	names, err := store.ListNames(ctx, dir)
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Fatalf("ListNames = %v", names)
	}

	paths, err := store.List(ctx, dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "a.txt") {
		t.Fatalf("List = %v", paths)
	}

	rc, err := store.Open(ctx, dir, "a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(body) != "alpha" {
		t.Fatalf("read = %q, err %v", body, err)
	}

	deleted, err := store.Delete(ctx, dir, "a.txt")
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, err %v", deleted, err)
	}
	deleted, err = store.Delete(ctx, dir, "a.txt")
	if err != nil || deleted {
		t.Fatalf("second Delete = %v, err %v", deleted, err)
	}
}

func TestListMissingFolderIsEmpty(t *testing.T) {
	store := New()
	paths, err := store.List(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty list, got %v", paths)
	}
}

func TestSaveRejectsTraversal(t *testing.T) {
	store := New()
	if _, err := store.Save(context.Background(), t.TempDir(), "../evil.txt", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}
