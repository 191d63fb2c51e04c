package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/keshon/parlor/datastore"
)

const (
	permPrefix = "perm:"
	userPrefix = "user:"
)

// Storage is a Store backed by a JSON datastore file.
type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex // serializes read-modify-write of user records
}

// Record holds the data stored for one identity.
type Record struct {
	Data map[string]string `json:"data"`
}

type permRecord struct {
	Tier int `json:"tier"`
}

var _ Store = (*Storage)(nil)

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// NewWithDatastore wraps an already opened datastore.
func NewWithDatastore(ds *datastore.DataStore) *Storage {
	return &Storage{ds: ds}
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func (s *Storage) GetTier(ctx context.Context, identity string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var rec permRecord
	ok, err := s.ds.Get(permPrefix+identity, &rec)
	if err != nil {
		return 0, fmt.Errorf("get tier: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return rec.Tier, nil
}

func (s *Storage) SetTier(ctx context.Context, identity string, tier int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ds.Put(permPrefix+identity, permRecord{Tier: tier}); err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	return nil
}

func (s *Storage) RemoveTier(ctx context.Context, identity string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	removed, err := s.ds.Delete(permPrefix + identity)
	if err != nil {
		return false, fmt.Errorf("remove tier: %w", err)
	}
	return removed, nil
}

func (s *Storage) ListTiers(ctx context.Context) ([]TierEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := s.ds.Keys(permPrefix)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}

	entries := make([]TierEntry, 0, len(keys))
	for _, k := range keys {
		var rec permRecord
		ok, err := s.ds.Get(k, &rec)
		if err != nil {
			return nil, fmt.Errorf("list tiers: %w", err)
		}
		if !ok {
			continue
		}
		entries = append(entries, TierEntry{Identity: strings.TrimPrefix(k, permPrefix), Tier: rec.Tier})
	}
	return entries, nil
}

// getUserRecord loads the record of identity, or an empty one.
func (s *Storage) getUserRecord(identity string) (*Record, error) {
	var rec Record
	if _, err := s.ds.Get(userPrefix+identity, &rec); err != nil {
		return nil, err
	}
	if rec.Data == nil {
		rec.Data = map[string]string{}
	}
	return &rec, nil
}

func (s *Storage) GetValue(ctx context.Context, identity, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	rec, err := s.getUserRecord(identity)
	if err != nil {
		return "", false, fmt.Errorf("get value: %w", err)
	}
	v, ok := rec.Data[key]
	return v, ok, nil
}

func (s *Storage) SetValue(ctx context.Context, identity, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.getUserRecord(identity)
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	rec.Data[key] = value
	if err := s.ds.Put(userPrefix+identity, rec); err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

func (s *Storage) DeleteValue(ctx context.Context, identity, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.getUserRecord(identity)
	if err != nil {
		return false, fmt.Errorf("delete value: %w", err)
	}
	if _, ok := rec.Data[key]; !ok {
		return false, nil
	}
	delete(rec.Data, key)

	if len(rec.Data) == 0 {
		_, err = s.ds.Delete(userPrefix + identity)
	} else {
		err = s.ds.Put(userPrefix+identity, rec)
	}
	if err != nil {
		return false, fmt.Errorf("delete value: %w", err)
	}
	return true, nil
}

func (s *Storage) ListValues(ctx context.Context, identity string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := s.getUserRecord(identity)
	if err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}

	entries := make([]Entry, 0, len(rec.Data))
	for k, v := range rec.Data {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}
