// Package transport defines how the bot talks to a chat network. A
// transport delivers inbound lines to a Handler and carries replies back.
package transport

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by Send, Join and Leave before Run has
// established a connection or after it returned.
var ErrNotConnected = errors.New("transport not connected")

// Inbound is one chat line as received, before tokenizing.
type Inbound struct {
	Text    string
	Caller  string // stable identity; empty when the network cannot attribute an author
	Nick    string // display name; empty when it equals Caller
	Channel string // where replies go
}

// Handler consumes inbound lines. Transports call it from their read loop,
// so it must not block for long.
type Handler func(ctx context.Context, in Inbound)

// Transport is a chat network connection.
type Transport interface {
	Name() string
	// Run connects and delivers inbound lines to h until ctx is done or the
	// connection fails.
	Run(ctx context.Context, h Handler) error
	Send(ctx context.Context, channel, text string) error
	// Join and Leave act on channel as named by a user in origin, the
	// channel the request came from.
	Join(ctx context.Context, origin, channel string) error
	Leave(ctx context.Context, origin, channel string) error
}
