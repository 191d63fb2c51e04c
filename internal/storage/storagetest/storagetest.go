// Package storagetest runs the storage.Store contract against a backend.
package storagetest

import (
	"context"
	"testing"

	"github.com/keshon/parlor/internal/storage"
)

// Run exercises every Store method against stores returned by open. Each
// subtest gets a fresh store.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("MissingTierIsZero", func(t *testing.T) {
		s := open(t)
		tier, err := s.GetTier(context.Background(), "nobody")
		if err != nil {
			t.Fatalf("get tier: %v", err)
		}
		if tier != 0 {
			t.Fatalf("tier = %d, want 0", tier)
		}
	})

	t.Run("GrantOverwritesAndRevoke", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		if err := s.SetTier(ctx, "bob", 5); err != nil {
			t.Fatalf("set tier: %v", err)
		}
		if err := s.SetTier(ctx, "bob", 10); err != nil {
			t.Fatalf("set tier again: %v", err)
		}
		tier, err := s.GetTier(ctx, "bob")
		if err != nil || tier != 10 {
			t.Fatalf("tier = %d, %v; want 10", tier, err)
		}

		removed, err := s.RemoveTier(ctx, "bob")
		if err != nil || !removed {
			t.Fatalf("remove = %v, %v", removed, err)
		}
		removed, err = s.RemoveTier(ctx, "bob")
		if err != nil || removed {
			t.Fatalf("second remove = %v, %v; want false", removed, err)
		}
		tier, err = s.GetTier(ctx, "bob")
		if err != nil || tier != 0 {
			t.Fatalf("tier after revoke = %d, %v", tier, err)
		}
	})

	t.Run("ListTiersOrderedByIdentity", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		for _, e := range []storage.TierEntry{{"carol", 1}, {"alice", 10}, {"bob", 3}} {
			if err := s.SetTier(ctx, e.Identity, e.Tier); err != nil {
				t.Fatalf("set tier %s: %v", e.Identity, err)
			}
		}
		got, err := s.ListTiers(ctx)
		if err != nil {
			t.Fatalf("list tiers: %v", err)
		}
		want := []storage.TierEntry{{"alice", 10}, {"bob", 3}, {"carol", 1}}
		if len(got) != len(want) {
			t.Fatalf("tiers = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("tiers[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("SetOverwritesValue", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		if err := s.SetValue(ctx, "alice", "color", "blue"); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := s.SetValue(ctx, "alice", "color", "red"); err != nil {
			t.Fatalf("set again: %v", err)
		}
		v, ok, err := s.GetValue(ctx, "alice", "color")
		if err != nil || !ok || v != "red" {
			t.Fatalf("get = %q, %v, %v; want red", v, ok, err)
		}
	})

	t.Run("ValuesAreScopedByIdentity", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		if err := s.SetValue(ctx, "alice", "k", "a"); err != nil {
			t.Fatalf("set: %v", err)
		}
		if _, ok, err := s.GetValue(ctx, "bob", "k"); err != nil || ok {
			t.Fatalf("bob sees alice's key: %v, %v", ok, err)
		}
	})

	t.Run("DeleteValue", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		if err := s.SetValue(ctx, "alice", "k", "v"); err != nil {
			t.Fatalf("set: %v", err)
		}
		removed, err := s.DeleteValue(ctx, "alice", "k")
		if err != nil || !removed {
			t.Fatalf("delete = %v, %v", removed, err)
		}
		removed, err = s.DeleteValue(ctx, "alice", "k")
		if err != nil || removed {
			t.Fatalf("second delete = %v, %v", removed, err)
		}
		if _, ok, _ := s.GetValue(ctx, "alice", "k"); ok {
			t.Fatal("value present after delete")
		}
	})

	t.Run("ListValuesOrderedByKey", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		if got, err := s.ListValues(ctx, "alice"); err != nil || len(got) != 0 {
			t.Fatalf("empty list = %v, %v", got, err)
		}
		for _, e := range []storage.Entry{{"zeta", "1"}, {"alpha", "two words"}} {
			if err := s.SetValue(ctx, "alice", e.Key, e.Value); err != nil {
				t.Fatalf("set %s: %v", e.Key, err)
			}
		}
		got, err := s.ListValues(ctx, "alice")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []storage.Entry{{"alpha", "two words"}, {"zeta", "1"}}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := s.SetValue(ctx, "alice", "k", "v"); err == nil {
			t.Fatal("expected error for canceled context")
		}
	})
}
