// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"fmt"

	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/internal/storage/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

// Open returns the store for driver at path.
func Open(driver, path string) (storage.Store, error) {
	switch driver {
	case DriverSQLite, "":
		return sqlite.Open(path)
	case DriverJSON:
		return storage.New(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
