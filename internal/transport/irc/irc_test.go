package irc

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/keshon/parlor/internal/transport"
	"github.com/rs/zerolog"
)

func parse(t *testing.T, line string) ircmsg.Message {
	t.Helper()

	m, err := ircmsg.ParseLine(line)
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	return m
}

func TestInboundFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want transport.Inbound
		ok   bool
	}{
		{
			":alice!a@host PRIVMSG #testes :!ping",
			transport.Inbound{Text: "!ping", Caller: "alice", Channel: "#testes"},
			true,
		},
		{
			":alice!a@host PRIVMSG rusty :!hello there",
			transport.Inbound{Text: "!hello there", Caller: "alice", Channel: "alice"},
			true,
		},
		{":rusty!r@host PRIVMSG #testes :pong!", transport.Inbound{}, false},
		{":alice!a@host PRIVMSG #testes", transport.Inbound{}, false},
	}
	for _, tt := range tests {
		got, ok := inboundFrom(parse(t, tt.line), "rusty")
		if ok != tt.ok || got != tt.want {
			t.Errorf("inboundFrom(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNotConnected(t *testing.T) {
	t.Parallel()

	c := New(Config{Server: "localhost:6667", Nick: "rusty", SendRate: 2}, zerolog.Nop())
	ctx := context.Background()
	if err := c.Send(ctx, "#x", "hi"); !errors.Is(err, transport.ErrNotConnected) {
		t.Fatalf("send err = %v", err)
	}
	if err := c.Join(ctx, "#y", "#x"); !errors.Is(err, transport.ErrNotConnected) {
		t.Fatalf("join err = %v", err)
	}
}

func TestChannelListHelpers(t *testing.T) {
	t.Parallel()

	list := []string{"#a", "#B"}
	if !containsFold(list, "#b") {
		t.Fatal("containsFold is case sensitive")
	}
	if got := removeFold(list, "#A"); !slices.Equal(got, []string{"#B"}) {
		t.Fatalf("removeFold = %v", got)
	}
}
