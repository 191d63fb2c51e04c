package middleware

import (
	"context"

	"github.com/keshon/parlor/internal/command"
	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/pkg/cmd"
	"github.com/rs/zerolog"
)

const (
	replyNotLoggedIn = "You must be logged in to use this command"
	replyDenied      = "Permission denied. This command requires %s access"
	replyLookupError = "Could not verify your permissions: %v"
)

// WithAccess wraps a command to enforce its access class. Open commands run
// for everyone. Gated commands need a known caller whose tier satisfies the
// class; otherwise exactly one reply is produced and the command never runs.
// A failed tier lookup denies access.
func WithAccess(gate *permission.Gate) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		class := command.ClassOf(c)
		if class == permission.Open {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if inv.Caller == "" {
				inv.Reply(replyNotLoggedIn)
				return nil
			}

			tier, err := gate.Lookup(ctx, inv.Caller)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).
					Str("caller", inv.Caller).
					Str("command", c.Name()).
					Msg("permission lookup failed")
				inv.Replyf(replyLookupError, err)
				return nil
			}
			if !class.Allows(tier) {
				zerolog.Ctx(ctx).Info().
					Str("caller", inv.Caller).
					Str("command", c.Name()).
					Int("tier", tier).
					Stringer("class", class).
					Msg("permission denied")
				inv.Replyf(replyDenied, class)
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}
