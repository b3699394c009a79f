package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "board_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load missing: err = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "board_a", []byte(`[1]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "board_a", []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Load(ctx, "board_a")
	if err != nil || string(got) != `[2]` {
		t.Fatalf("load = %s, %v", got, err)
	}

	if l, ok := s.(Lister); ok {
		keys, err := l.Keys(ctx)
		if err != nil || len(keys) != 1 || keys[0] != "board_a" {
			t.Fatalf("keys = %v, %v", keys, err)
		}
	}

	if err := s.Delete(ctx, "board_a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "board_a"); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
	if _, err := s.Load(ctx, "board_a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load after delete: err = %v", err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryCopiesData(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	m.Save(context.Background(), "k", buf)
	buf[0] = 'x'
	got, _ := m.Load(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %s", got)
	}
}

func TestFile(t *testing.T) {
	exercise(t, NewFile(t.TempDir()))
}

func TestFileRejectsPathKeys(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir)
	for _, key := range []string{"", "../escape", "a/b", "dot.key"} {
		if err := f.Save(context.Background(), key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Fatal("file written outside the data dir")
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir)
	if err := f.Save(context.Background(), DefaultKey, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != DefaultKey+".json" {
		t.Fatalf("dir entries = %v", entries)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, release, err := Open(ctx, DriverMemory, "", "")
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if _, ok := s.(*Memory); !ok {
		t.Errorf("memory driver opened %T", s)
	}

	s, _, err = Open(ctx, DriverFile, t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)

	if _, _, err := Open(ctx, "redis", "", ""); err == nil {
		t.Error("unknown driver accepted")
	}
}
