// Package channel holds the restricted commands that move the bot between
// channels.
package channel

import (
	"context"
	"strings"

	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/pkg/cmd"
	"github.com/rs/zerolog"
)

// Mover is the part of a transport these commands drive. origin is the
// channel the command was issued in.
type Mover interface {
	Join(ctx context.Context, origin, channel string) error
	Leave(ctx context.Context, origin, channel string) error
}

const marker = "#"

type JoinCommand struct {
	Transport Mover
}

func (c *JoinCommand) Name() string            { return "join" }
func (c *JoinCommand) Description() string     { return "Join a channel" }
func (c *JoinCommand) Group() string           { return "channel" }
func (c *JoinCommand) Class() permission.Class { return permission.Restricted }
func (c *JoinCommand) Usage() string           { return "join <#ch>" }

func (c *JoinCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) == 0 {
		inv.Reply("Usage: !join <#channel>")
		return nil
	}
	target := inv.Arg(0)
	if !strings.HasPrefix(target, marker) {
		inv.Reply("Channel name must start with #")
		return nil
	}
	if err := c.Transport.Join(ctx, inv.Channel, target); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("target", target).Msg("join failed")
		inv.Replyf("Error joining %s: %v", target, err)
		return nil
	}
	inv.Replyf("Joining %s", target)
	return nil
}

// LeaveCommand parts the given channel, or the current one when no
// argument is given.
type LeaveCommand struct {
	Transport Mover
}

func (c *LeaveCommand) Name() string            { return "leave" }
func (c *LeaveCommand) Description() string     { return "Leave a channel" }
func (c *LeaveCommand) Group() string           { return "channel" }
func (c *LeaveCommand) Class() permission.Class { return permission.Restricted }
func (c *LeaveCommand) Usage() string           { return "leave <#ch>" }

func (c *LeaveCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	target := inv.Channel
	if len(inv.Args) > 0 {
		target = inv.Arg(0)
	}
	if !strings.HasPrefix(target, marker) {
		inv.Reply("Channel name must start with #")
		return nil
	}
	if err := c.Transport.Leave(ctx, inv.Channel, target); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("target", target).Msg("leave failed")
		inv.Replyf("Error leaving %s: %v", target, err)
		return nil
	}
	inv.Replyf("Leaving %s", target)
	return nil
}
