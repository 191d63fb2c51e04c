package middleware

import (
	"context"
	"time"

	"github.com/keshon/parlor/pkg/cmd"
	"github.com/rs/zerolog"
)

// WithCommandLogger wraps a command to log its execution.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			logger := zerolog.Ctx(ctx)
			ev := logger.Info()
			if err != nil {
				ev = logger.Warn().Err(err)
			}
			ev.Str("command", c.Name()).
				Str("caller", inv.Caller).
				Str("channel", inv.Channel).
				Int("args", len(inv.Args)).
				Int("replies", len(inv.Replies())).
				Dur("took", time.Since(start)).
				Msg("command executed")
			return err
		})
	}
}
