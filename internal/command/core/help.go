package core

import (
	"context"
	"strings"

	"github.com/keshon/parlor/internal/command"
	"github.com/keshon/parlor/internal/message"
	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/pkg/cmd"
	"github.com/samber/lo"
)

var helpSections = []struct {
	class permission.Class
	title string
}{
	{permission.Open, "Public"},
	{permission.Restricted, "Restricted"},
	{permission.Admin, "Admin"},
}

// HelpCommand lists registered commands, one line per access class.
type HelpCommand struct {
	Registry *cmd.Registry
	Marker   string
}

func (c *HelpCommand) Name() string            { return "help" }
func (c *HelpCommand) Description() string     { return "List available commands" }
func (c *HelpCommand) Group() string           { return "core" }
func (c *HelpCommand) Class() permission.Class { return permission.Open }
func (c *HelpCommand) Usage() string           { return "help" }

func (c *HelpCommand) Run(_ context.Context, inv *cmd.Invocation) error {
	marker := c.Marker
	if marker == "" {
		marker = message.DefaultMarker
	}

	byClass := lo.GroupBy(c.Registry.GetAll(), command.ClassOf)
	for _, s := range helpSections {
		cmds := byClass[s.class]
		if len(cmds) == 0 {
			continue
		}
		usages := lo.Map(cmds, func(x cmd.Command, _ int) string {
			if m, ok := command.MetaOf(x); ok {
				return marker + m.Usage()
			}
			return marker + x.Name()
		})
		inv.Replyf("%s: %s", s.title, strings.Join(usages, ", "))
	}
	return nil
}
