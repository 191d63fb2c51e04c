// Package storage defines the persistence contract for permission tiers and
// per-user key/value data, plus a JSON file backed implementation.
package storage

import "context"

// TierEntry is one identity with a granted tier.
type TierEntry struct {
	Identity string
	Tier     int
}

// Entry is one stored key/value pair of a user.
type Entry struct {
	Key   string
	Value string
}

// Store is implemented by every persistence backend. A missing permission
// record reads as tier 0. All methods may fail with a backend error; a failed
// write leaves the store unchanged.
type Store interface {
	GetTier(ctx context.Context, identity string) (int, error)
	SetTier(ctx context.Context, identity string, tier int) error
	// RemoveTier reports whether a record existed.
	RemoveTier(ctx context.Context, identity string) (bool, error)
	// ListTiers is ordered by identity.
	ListTiers(ctx context.Context) ([]TierEntry, error)

	GetValue(ctx context.Context, identity, key string) (string, bool, error)
	SetValue(ctx context.Context, identity, key, value string) error
	// DeleteValue reports whether the key existed.
	DeleteValue(ctx context.Context, identity, key string) (bool, error)
	// ListValues is ordered by key.
	ListValues(ctx context.Context, identity string) ([]Entry, error)

	Close() error
}
