package cmd

// Middleware wraps a command with cross-cutting behaviour such as access
// checks or logging. The wrapped value is still a Command.
type Middleware func(Command) Command

// Apply wraps c with mws in order, so the last middleware is the outermost
// and runs first.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}
