package datastore

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func openTemp(t *testing.T) (*DataStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = 0
	ds, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("open datastore: %v", err)
	}
	return ds, path
}

type record struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func TestPutGetDelete(t *testing.T) {
	t.Parallel()

	ds, _ := openTemp(t)
	defer ds.Close()

	if err := ds.Put("a", record{Name: "alice", Level: 3}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got record
	ok, err := ds.Get("a", &got)
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if got.Name != "alice" || got.Level != 3 {
		t.Fatalf("got %+v", got)
	}

	removed, err := ds.Delete("a")
	if err != nil || !removed {
		t.Fatalf("delete = %v, %v", removed, err)
	}
	removed, err = ds.Delete("a")
	if err != nil || removed {
		t.Fatalf("second delete = %v, %v", removed, err)
	}
	ok, err = ds.Get("a", &got)
	if err != nil || ok {
		t.Fatalf("get after delete = %v, %v", ok, err)
	}
}

func TestKeysByPrefix(t *testing.T) {
	t.Parallel()

	ds, _ := openTemp(t)
	defer ds.Close()

	for _, k := range []string{"p:b", "p:a", "q:a"} {
		if err := ds.Put(k, 1); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	keys, err := ds.Keys("p:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !slices.Equal(keys, []string{"p:a", "p:b"}) {
		t.Fatalf("keys = %v", keys)
	}
}

func TestCloseFlushesAndReloads(t *testing.T) {
	t.Parallel()

	ds, path := openTemp(t)
	if err := ds.Put("k", "v"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := ds.Put("k", "w"); !errors.Is(err, ErrClosed) {
		t.Fatalf("put after close = %v, want ErrClosed", err)
	}

	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = 0
	reopened, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var v string
	ok, err := reopened.Get("k", &v)
	if err != nil || !ok || v != "v" {
		t.Fatalf("reloaded = %q, %v, %v", v, ok, err)
	}
}

func TestMemoryLimit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = 0
	cfg.MaxMemorySize = 8
	ds, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ds.Close()

	if err := ds.Put("k", "this value is too long"); !errors.Is(err, ErrMemoryLimit) {
		t.Fatalf("put = %v, want ErrMemoryLimit", err)
	}
	ok, _ := ds.Get("k", new(string))
	if ok {
		t.Fatal("rejected value was stored")
	}
}

func TestCorruptFileRejected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}
