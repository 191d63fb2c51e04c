// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How lines reach it
// (IRC, Discord, console) is decided by the transport that feeds the bot.
package cmd

import (
	"context"
	"fmt"
	"strings"
)

// Invocation carries one parsed command call and collects its replies in
// order. An Invocation belongs to a single dispatch and is not shared.
type Invocation struct {
	Name    string
	Args    []string
	Caller  string // stable identity; empty when the author is unknown
	Nick    string // display name, may be empty
	Channel string
	Data    any // transport specific payload, may be nil

	replies []string
}

// Reply appends one line to the reply sequence.
func (inv *Invocation) Reply(line string) {
	inv.replies = append(inv.replies, line)
}

// Replyf appends one formatted line.
func (inv *Invocation) Replyf(format string, a ...any) {
	inv.Reply(fmt.Sprintf(format, a...))
}

// Replies returns the collected lines in the order they were added.
func (inv *Invocation) Replies() []string {
	return inv.replies
}

// Arg returns the i-th argument or "".
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Rest joins the arguments from i on with single spaces.
func (inv *Invocation) Rest(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return strings.Join(inv.Args[i:], " ")
}

// Command is the universal contract: identity plus execution. Access class,
// usage text and other metadata stay in optional interfaces.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
