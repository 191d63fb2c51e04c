// Package admin holds the commands that manage permission tiers.
package admin

import (
	"context"
	"strconv"

	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/pkg/cmd"
	"github.com/rs/zerolog"
)

// Store is the part of storage.Store these commands use.
type Store interface {
	SetTier(ctx context.Context, identity string, tier int) error
	RemoveTier(ctx context.Context, identity string) (bool, error)
	ListTiers(ctx context.Context) ([]storage.TierEntry, error)
}

type GrantCommand struct {
	Store Store
}

func (c *GrantCommand) Name() string            { return "grant" }
func (c *GrantCommand) Description() string     { return "Set the permission level of a user" }
func (c *GrantCommand) Group() string           { return "admin" }
func (c *GrantCommand) Class() permission.Class { return permission.Admin }
func (c *GrantCommand) Usage() string           { return "grant <user> <level>" }

func (c *GrantCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) < 2 {
		inv.Reply("Usage: !grant <user> <level>")
		return nil
	}
	target := inv.Arg(0)
	level, err := strconv.ParseInt(inv.Arg(1), 10, 32)
	if err != nil {
		inv.Reply("Permission level must be a number")
		return nil
	}
	if err := c.Store.SetTier(ctx, target, int(level)); err != nil {
		inv.Replyf("Error granting permission: %v", err)
		return nil
	}
	zerolog.Ctx(ctx).Info().
		Str("by", inv.Caller).
		Str("target", target).
		Int64("level", level).
		Msg("permission granted")
	inv.Replyf("Granted permission level %d to %s", level, target)
	return nil
}

type RevokeCommand struct {
	Store Store
}

func (c *RevokeCommand) Name() string            { return "revoke" }
func (c *RevokeCommand) Description() string     { return "Remove all permissions of a user" }
func (c *RevokeCommand) Group() string           { return "admin" }
func (c *RevokeCommand) Class() permission.Class { return permission.Admin }
func (c *RevokeCommand) Usage() string           { return "revoke <user>" }

func (c *RevokeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) == 0 {
		inv.Reply("Usage: !revoke <user>")
		return nil
	}
	target := inv.Arg(0)
	removed, err := c.Store.RemoveTier(ctx, target)
	switch {
	case err != nil:
		inv.Replyf("Error revoking permission: %v", err)
	case !removed:
		inv.Replyf("User %s has no permissions", target)
	default:
		zerolog.Ctx(ctx).Info().Str("by", inv.Caller).Str("target", target).Msg("permission revoked")
		inv.Replyf("Revoked permissions for %s", target)
	}
	return nil
}

type PermsCommand struct {
	Store Store
}

func (c *PermsCommand) Name() string            { return "perms" }
func (c *PermsCommand) Description() string     { return "List users with permissions" }
func (c *PermsCommand) Group() string           { return "admin" }
func (c *PermsCommand) Class() permission.Class { return permission.Admin }
func (c *PermsCommand) Usage() string           { return "perms" }

func (c *PermsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	entries, err := c.Store.ListTiers(ctx)
	if err != nil {
		inv.Replyf("Error listing permissions: %v", err)
		return nil
	}
	if len(entries) == 0 {
		inv.Reply("No users with permissions")
		return nil
	}
	inv.Reply("Users with permissions:")
	for _, e := range entries {
		inv.Replyf("  %s - Level %d", e.Identity, e.Tier)
	}
	return nil
}
