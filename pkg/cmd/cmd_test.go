package cmd

import (
	"context"
	"slices"
	"testing"
)

type echoCommand struct{ name string }

func (e echoCommand) Name() string        { return e.name }
func (e echoCommand) Description() string { return "echo " + e.name }
func (e echoCommand) Run(_ context.Context, inv *Invocation) error {
	inv.Reply(e.name)
	return nil
}

func tag(label string) Middleware {
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) error {
			inv.Reply(label)
			return c.Run(ctx, inv)
		})
	}
}

func TestApplyOrder(t *testing.T) {
	t.Parallel()

	c := Apply(echoCommand{"run"}, tag("inner"), tag("outer"))
	inv := &Invocation{}
	if err := c.Run(context.Background(), inv); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"outer", "inner", "run"}
	if !slices.Equal(inv.Replies(), want) {
		t.Fatalf("replies = %q, want %q", inv.Replies(), want)
	}
}

func TestWrapDelegatesIdentityAndRoot(t *testing.T) {
	t.Parallel()

	base := echoCommand{"ping"}
	c := Apply(base, tag("a"), tag("b"))
	if c.Name() != "ping" || c.Description() != "echo ping" {
		t.Fatalf("identity lost: %q %q", c.Name(), c.Description())
	}
	if Root(c) != Command(base) {
		t.Fatal("Root did not reach the base command")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(echoCommand{"b"}, echoCommand{"a"})
	if r.Get("a") == nil || r.Get("missing") != nil {
		t.Fatal("lookup mismatch")
	}
	var names []string
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	if !slices.Equal(names, []string{"a", "b"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestReplyf(t *testing.T) {
	t.Parallel()

	inv := &Invocation{}
	inv.Replyf("%s = %d", "x", 1)
	if got := inv.Replies(); len(got) != 1 || got[0] != "x = 1" {
		t.Fatalf("replies = %q", got)
	}
}

func TestInvocationArgs(t *testing.T) {
	t.Parallel()

	inv := &Invocation{Args: []string{"a", "b", "c"}}
	if inv.Arg(1) != "b" || inv.Arg(5) != "" || inv.Arg(-1) != "" {
		t.Fatal("Arg mismatch")
	}
	if got := inv.Rest(1); got != "b c" {
		t.Fatalf("Rest(1) = %q", got)
	}
	if got := inv.Rest(3); got != "" {
		t.Fatalf("Rest(3) = %q", got)
	}
}
