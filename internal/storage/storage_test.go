package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/keshon/parlor/datastore"
	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/internal/storage/storagetest"
)

func TestJSONStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		cfg := datastore.DefaultConfig(filepath.Join(t.TempDir(), "bot.json"))
		cfg.AutoSaveInterval = 0
		ds, err := datastore.NewWithConfig(cfg)
		if err != nil {
			t.Fatalf("open datastore: %v", err)
		}
		s := storage.NewWithDatastore(ds)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
