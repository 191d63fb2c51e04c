package bot

import (
	"github.com/keshon/parlor/internal/command"
	"github.com/keshon/parlor/internal/command/admin"
	"github.com/keshon/parlor/internal/command/channel"
	"github.com/keshon/parlor/internal/command/core"
	"github.com/keshon/parlor/internal/command/games"
	"github.com/keshon/parlor/internal/command/userdata"
	"github.com/keshon/parlor/internal/middleware"
	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/internal/session"
	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/pkg/cmd"
)

// Deps are the services commands are built over.
type Deps struct {
	Store    storage.Store
	Sessions *session.Registry
	Mover    channel.Mover
	Marker   string
}

// NewRegistry builds the registry with every bot command. Access checks run
// inside the logger so denials are logged too.
func NewRegistry(d Deps) *cmd.Registry {
	reg := cmd.NewRegistry()
	mws := []cmd.Middleware{
		middleware.WithAccess(permission.NewGate(d.Store)),
		middleware.WithCommandLogger(),
	}

	command.Register(reg, mws,
		&core.PingCommand{},
		&core.HelloCommand{},
		&core.EchoCommand{},
		&core.HelpCommand{Registry: reg, Marker: d.Marker},
		&games.HangmanCommand{Sessions: d.Sessions},

		&channel.JoinCommand{Transport: d.Mover},
		&channel.LeaveCommand{Transport: d.Mover},
		&userdata.SetCommand{Store: d.Store},
		&userdata.GetCommand{Store: d.Store},
		&userdata.DelCommand{Store: d.Store},
		&userdata.ListCommand{Store: d.Store},

		&admin.GrantCommand{Store: d.Store},
		&admin.RevokeCommand{Store: d.Store},
		&admin.PermsCommand{Store: d.Store},
	)
	return reg
}
