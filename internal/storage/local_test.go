package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndRemove(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	ref, err := local.Save(ctx, "logo.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(ref, "-logo.png") {
		t.Fatalf("unexpected ref: %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(local.Root(), ref))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := local.Remove(ctx, ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(local.Root(), ref)); !os.IsNotExist(err) {
		t.Fatal("file still exists after remove")
	}

	// Removing again is not an error.
	if err := local.Remove(ctx, ref); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestSaveSanitizesNames(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	ref, err := local.Save(context.Background(), "../../etc/pass wd#!.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		t.Fatalf("ref escapes the root: %q", ref)
	}
}

func TestOpenStreamsSavedFile(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	ref, err := local.Save(ctx, "doc.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := local.Open(ctx, ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestOpenMissingOrPathRefs(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	for _, ref := range []string{"nope.png", "", "..", "a/b", "../outside"} {
		if _, err := local.Open(context.Background(), ref); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("ref %q: expected fs.ErrNotExist, got %v", ref, err)
		}
	}
}

func TestRemoveRejectsPathRefs(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	for _, ref := range []string{"", "..", "a/b", `a\b`, "../outside"} {
		if err := local.Remove(context.Background(), ref); err == nil {
			t.Fatalf("ref %q: expected error", ref)
		}
	}
}
