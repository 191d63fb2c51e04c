// Package command holds what command implementations share: the metadata
// middleware reads through cmd.Root, and registration helpers.
package command

import (
	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/pkg/cmd"
)

// Meta is implemented by every bot command so middleware and help can read
// its access class and usage without knowing the concrete type.
type Meta interface {
	Group() string
	Class() permission.Class
	Usage() string
}

// Register applies mws to each command and adds it to reg.
func Register(reg *cmd.Registry, mws []cmd.Middleware, cs ...cmd.Command) {
	for _, c := range cs {
		reg.Register(cmd.Apply(c, mws...))
	}
}

// MetaOf returns the metadata of c, unwrapping middleware. Commands without
// metadata are treated as open.
func MetaOf(c cmd.Command) (Meta, bool) {
	m, ok := cmd.Root(c).(Meta)
	return m, ok
}

// ClassOf returns the access class of c.
func ClassOf(c cmd.Command) permission.Class {
	if m, ok := MetaOf(c); ok {
		return m.Class()
	}
	return permission.Open
}
