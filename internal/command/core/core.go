// Package core holds the public commands every caller can use.
package core

import (
	"context"

	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/pkg/cmd"
)

type PingCommand struct{}

func (c *PingCommand) Name() string            { return "ping" }
func (c *PingCommand) Description() string     { return "Check that the bot is alive" }
func (c *PingCommand) Group() string           { return "core" }
func (c *PingCommand) Class() permission.Class { return permission.Open }
func (c *PingCommand) Usage() string           { return "ping" }

func (c *PingCommand) Run(_ context.Context, inv *cmd.Invocation) error {
	inv.Reply("pong!")
	return nil
}

type HelloCommand struct{}

func (c *HelloCommand) Name() string            { return "hello" }
func (c *HelloCommand) Description() string     { return "Greet the caller" }
func (c *HelloCommand) Group() string           { return "core" }
func (c *HelloCommand) Class() permission.Class { return permission.Open }
func (c *HelloCommand) Usage() string           { return "hello" }

func (c *HelloCommand) Run(_ context.Context, inv *cmd.Invocation) error {
	name := inv.Nick
	if name == "" {
		name = inv.Caller
	}
	if name == "" {
		inv.Reply("Hello there!")
		return nil
	}
	inv.Replyf("Hello, %s!", name)
	return nil
}

type EchoCommand struct{}

func (c *EchoCommand) Name() string            { return "echo" }
func (c *EchoCommand) Description() string     { return "Repeat a message" }
func (c *EchoCommand) Group() string           { return "core" }
func (c *EchoCommand) Class() permission.Class { return permission.Open }
func (c *EchoCommand) Usage() string           { return "echo <msg>" }

func (c *EchoCommand) Run(_ context.Context, inv *cmd.Invocation) error {
	if len(inv.Args) == 0 {
		inv.Reply("Usage: !echo <message>")
		return nil
	}
	inv.Reply(inv.Rest(0))
	return nil
}
