// Package bot connects a transport to the command registry: it tokenizes
// inbound lines, dispatches commands and sends their replies back.
package bot

import (
	"context"

	"github.com/google/uuid"
	"github.com/keshon/parlor/internal/message"
	"github.com/keshon/parlor/pkg/cmd"
	"github.com/rs/zerolog"
)

// Dispatcher routes parsed messages to registered commands.
type Dispatcher struct {
	registry *cmd.Registry
	logger   zerolog.Logger
}

func NewDispatcher(reg *cmd.Registry, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{registry: reg, logger: logger}
}

// Dispatch runs the command named by m and returns its replies in order.
// Unknown commands get a single reply. A handler error becomes a reply and
// is never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, m *message.Message) []string {
	if !m.IsCommand() {
		return nil
	}

	logger := d.logger.With().
		Str("request_id", uuid.NewString()).
		Str("command", m.Command).
		Logger()
	ctx = logger.WithContext(ctx)

	c := d.registry.Get(m.Command)
	if c == nil {
		logger.Debug().Str("caller", m.Caller).Msg("unknown command")
		return []string{"Unknown command: " + m.Command}
	}

	inv := &cmd.Invocation{
		Name:    m.Command,
		Args:    m.Args,
		Caller:  m.Caller,
		Nick:    m.Nick,
		Channel: m.Channel,
	}
	if err := c.Run(ctx, inv); err != nil {
		logger.Error().Err(err).Msg("command failed")
		inv.Replyf("Error running command: %v", err)
	}
	return inv.Replies()
}
