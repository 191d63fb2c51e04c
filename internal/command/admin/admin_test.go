package admin

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/internal/storage/sqlite"
	"github.com/keshon/parlor/pkg/cmd"
)

type failingStore struct{}

var errLocked = errors.New("database is locked")

func (failingStore) SetTier(context.Context, string, int) error             { return errLocked }
func (failingStore) RemoveTier(context.Context, string) (bool, error)       { return false, errLocked }
func (failingStore) ListTiers(context.Context) ([]storage.TierEntry, error) { return nil, errLocked }

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "perm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func run(t *testing.T, c cmd.Command, args ...string) []string {
	t.Helper()

	inv := &cmd.Invocation{Name: c.Name(), Args: args, Caller: "root", Channel: "#ops"}
	if err := c.Run(context.Background(), inv); err != nil {
		t.Fatalf("%s: %v", c.Name(), err)
	}
	return inv.Replies()
}

func expect(t *testing.T, got []string, want ...string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("replies = %q, want %q", got, want)
	}
}

func TestGrantRevokePerms(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	grant, revoke, perms := &GrantCommand{Store: s}, &RevokeCommand{Store: s}, &PermsCommand{Store: s}

	expect(t, run(t, perms), "No users with permissions")
	expect(t, run(t, grant, "bob", "5"), "Granted permission level 5 to bob")
	expect(t, run(t, grant, "alice", "10"), "Granted permission level 10 to alice")
	expect(t, run(t, perms), "Users with permissions:", "  alice - Level 10", "  bob - Level 5")

	tier, err := s.GetTier(context.Background(), "bob")
	if err != nil || tier != 5 {
		t.Fatalf("bob tier = %d, %v", tier, err)
	}

	expect(t, run(t, revoke, "bob"), "Revoked permissions for bob")
	expect(t, run(t, revoke, "bob"), "User bob has no permissions")
}

func TestGrantValidation(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	grant := &GrantCommand{Store: s}

	expect(t, run(t, grant, "bob"), "Usage: !grant <user> <level>")
	expect(t, run(t, grant, "bob", "high"), "Permission level must be a number")
	expect(t, run(t, grant, "bob", "99999999999"), "Permission level must be a number")
	expect(t, run(t, &RevokeCommand{Store: s}), "Usage: !revoke <user>")

	if tier, _ := s.GetTier(context.Background(), "bob"); tier != 0 {
		t.Fatalf("bob tier = %d after rejected grants", tier)
	}
}

func TestStoreErrorsBecomeReplies(t *testing.T) {
	t.Parallel()

	s := failingStore{}
	expect(t, run(t, &GrantCommand{Store: s}, "bob", "1"), "Error granting permission: database is locked")
	expect(t, run(t, &RevokeCommand{Store: s}, "bob"), "Error revoking permission: database is locked")
	expect(t, run(t, &PermsCommand{Store: s}), "Error listing permissions: database is locked")
}
