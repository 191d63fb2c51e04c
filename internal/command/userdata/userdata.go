// Package userdata holds the restricted per-user key/value commands. Every
// command works on the caller's own namespace.
package userdata

import (
	"context"

	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/pkg/cmd"
)

// Store is the part of storage.Store these commands use.
type Store interface {
	GetValue(ctx context.Context, identity, key string) (string, bool, error)
	SetValue(ctx context.Context, identity, key, value string) error
	DeleteValue(ctx context.Context, identity, key string) (bool, error)
	ListValues(ctx context.Context, identity string) ([]storage.Entry, error)
}

type SetCommand struct {
	Store Store
}

func (c *SetCommand) Name() string            { return "set" }
func (c *SetCommand) Description() string     { return "Store a value under a key" }
func (c *SetCommand) Group() string           { return "userdata" }
func (c *SetCommand) Class() permission.Class { return permission.Restricted }
func (c *SetCommand) Usage() string           { return "set <k> <v>" }

func (c *SetCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) < 2 {
		inv.Reply("Usage: !set <key> <value>")
		return nil
	}
	key, value := inv.Arg(0), inv.Rest(1)
	if err := c.Store.SetValue(ctx, inv.Caller, key, value); err != nil {
		inv.Replyf("Error saving data: %v", err)
		return nil
	}
	inv.Replyf("Saved: %s = %s", key, value)
	return nil
}

type GetCommand struct {
	Store Store
}

func (c *GetCommand) Name() string            { return "get" }
func (c *GetCommand) Description() string     { return "Read a stored value" }
func (c *GetCommand) Group() string           { return "userdata" }
func (c *GetCommand) Class() permission.Class { return permission.Restricted }
func (c *GetCommand) Usage() string           { return "get <k>" }

func (c *GetCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) == 0 {
		inv.Reply("Usage: !get <key>")
		return nil
	}
	key := inv.Arg(0)
	value, ok, err := c.Store.GetValue(ctx, inv.Caller, key)
	switch {
	case err != nil:
		inv.Replyf("Error retrieving data: %v", err)
	case !ok:
		inv.Replyf("Key not found: %s", key)
	default:
		inv.Replyf("%s = %s", key, value)
	}
	return nil
}

type DelCommand struct {
	Store Store
}

func (c *DelCommand) Name() string            { return "del" }
func (c *DelCommand) Description() string     { return "Delete a stored value" }
func (c *DelCommand) Group() string           { return "userdata" }
func (c *DelCommand) Class() permission.Class { return permission.Restricted }
func (c *DelCommand) Usage() string           { return "del <k>" }

func (c *DelCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) == 0 {
		inv.Reply("Usage: !del <key>")
		return nil
	}
	key := inv.Arg(0)
	removed, err := c.Store.DeleteValue(ctx, inv.Caller, key)
	switch {
	case err != nil:
		inv.Replyf("Error deleting data: %v", err)
	case !removed:
		inv.Replyf("Key not found: %s", key)
	default:
		inv.Replyf("Deleted: %s", key)
	}
	return nil
}

type ListCommand struct {
	Store Store
}

func (c *ListCommand) Name() string            { return "list" }
func (c *ListCommand) Description() string     { return "List your stored values" }
func (c *ListCommand) Group() string           { return "userdata" }
func (c *ListCommand) Class() permission.Class { return permission.Restricted }
func (c *ListCommand) Usage() string           { return "list" }

func (c *ListCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	entries, err := c.Store.ListValues(ctx, inv.Caller)
	if err != nil {
		inv.Replyf("Error listing data: %v", err)
		return nil
	}
	if len(entries) == 0 {
		inv.Reply("No stored data")
		return nil
	}
	for _, e := range entries {
		inv.Replyf("%s: %s", e.Key, e.Value)
	}
	return nil
}
