package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/parlor/internal/transport"
	"github.com/keshon/parlor/pkg/retrylimit"
	"github.com/rs/zerolog"
)

func restError(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code}}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if classify(nil) != nil {
		t.Fatal("nil error classified")
	}

	var th retrylimit.Throttled
	if err := classify(restError(http.StatusTooManyRequests)); !errors.As(err, &th) {
		t.Fatalf("429 not throttled: %v", err)
	}

	var fatal *retrylimit.FatalError
	if err := classify(restError(http.StatusForbidden)); !errors.As(err, &fatal) {
		t.Fatalf("403 not fatal: %v", err)
	}

	plain := errors.New("reset by peer")
	if err := classify(plain); err != plain {
		t.Fatalf("plain error changed: %v", err)
	}
}

func TestChannelKey(t *testing.T) {
	t.Parallel()

	if got := channelKey(&discordgo.Channel{ID: "1", GuildID: "A", Name: "general"}); got != "#general/1" {
		t.Fatalf("key = %q", got)
	}
	if got := channelKey(&discordgo.Channel{ID: "42"}); got != "42" {
		t.Fatalf("dm key = %q", got)
	}

	tests := []struct {
		key string
		id  string
		ok  bool
	}{
		{"#general/1", "1", true},
		{"42", "42", true},
		{"#general", "", false},
		{"#general/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := channelID(tt.key)
		if id != tt.id || ok != tt.ok {
			t.Errorf("channelID(%q) = %q, %v; want %q, %v", tt.key, id, ok, tt.id, tt.ok)
		}
	}
}

func connected(t *testing.T) *Bot {
	t.Helper()

	b := New("token", 2, zerolog.Nop())
	b.dg = &discordgo.Session{}
	return b
}

func TestSameNameInDifferentGuildsStaysDistinct(t *testing.T) {
	t.Parallel()

	b := connected(t)
	a := &discordgo.Channel{ID: "100", GuildID: "A", Name: "general"}
	other := &discordgo.Channel{ID: "200", GuildID: "B", Name: "general"}
	b.remember(a)
	b.remember(other)

	keyA, keyB := channelKey(a), channelKey(other)
	if keyA == keyB {
		t.Fatalf("both guilds share key %q", keyA)
	}
	if id, _ := channelID(keyA); id != "100" {
		t.Fatalf("reply to guild A routed to %q", id)
	}
	if id, _ := channelID(keyB); id != "200" {
		t.Fatalf("reply to guild B routed to %q", id)
	}

	for origin, want := range map[string]string{keyA: "100", keyB: "200"} {
		id, err := b.target(origin, "#general")
		if err != nil || id != want {
			t.Fatalf("target from %s = %q, %v; want %q", origin, id, err, want)
		}
	}

	ctx := context.Background()
	if err := b.Leave(ctx, keyA, "#General"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !b.isMuted("100") || b.isMuted("200") {
		t.Fatalf("muted = %v, want only 100", b.muted)
	}
}

func TestTargetErrors(t *testing.T) {
	t.Parallel()

	b := New("token", 2, zerolog.Nop())
	b.remember(&discordgo.Channel{ID: "7", GuildID: "A", Name: "ops"})
	if _, err := b.target("#ops/7", "#ops"); !errors.Is(err, transport.ErrNotConnected) {
		t.Fatalf("target before Run = %v", err)
	}

	b.dg = &discordgo.Session{}
	b.remember(&discordgo.Channel{ID: "8", GuildID: "A", Name: "dupe"})
	b.remember(&discordgo.Channel{ID: "9", GuildID: "A", Name: "dupe"})

	tests := []struct {
		origin, channel string
		want            error
	}{
		{"#ops/7", "#nowhere", ErrUnknownChannel},
		{"#ops/7", "#dupe", ErrAmbiguousChannel},
		{"#ops/7", "#ops/99", ErrUnknownChannel},
		{"555", "#ops", ErrUnknownChannel}, // DM has no guild
	}
	for _, tt := range tests {
		if _, err := b.target(tt.origin, tt.channel); !errors.Is(err, tt.want) {
			t.Errorf("target(%q, %q) = %v, want %v", tt.origin, tt.channel, err, tt.want)
		}
	}
	if id, err := b.target("555", "#dupe/9"); err != nil || id != "9" {
		t.Fatalf("full key from DM = %q, %v", id, err)
	}
}

func TestMuteAndUnmute(t *testing.T) {
	t.Parallel()

	b := connected(t)
	b.remember(&discordgo.Channel{ID: "7", GuildID: "A", Name: "Ops"})

	ctx := context.Background()
	if err := b.Leave(ctx, "#Ops/7", "#ops"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !b.isMuted("7") {
		t.Fatal("channel not muted after leave")
	}
	if err := b.Join(ctx, "#Ops/7", "#ops"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if b.isMuted("7") {
		t.Fatal("channel still muted after join")
	}
}

func TestRememberKeepsNameOverPlaceholder(t *testing.T) {
	t.Parallel()

	b := New("token", 2, zerolog.Nop())
	b.remember(&discordgo.Channel{ID: "7", GuildID: "A", Name: "ops"})
	b.remember(&discordgo.Channel{ID: "7", GuildID: "A"})
	if got := b.channels["7"].name; got != "ops" {
		t.Fatalf("name = %q, want ops", got)
	}
}

func TestInboundKeysCallerByID(t *testing.T) {
	t.Parallel()

	bob := &discordgo.User{ID: "222", Username: "bob"}
	m := &discordgo.Message{
		Content:  "!grant <@!222> 5 and <@222>",
		Author:   &discordgo.User{ID: "111", Username: "alice"},
		Mentions: []*discordgo.User{bob},
	}
	got := inbound(m, &discordgo.Channel{ID: "100", GuildID: "A", Name: "general"})
	want := transport.Inbound{
		Text:    "!grant 222 5 and 222",
		Caller:  "111",
		Nick:    "alice",
		Channel: "#general/100",
	}
	if got != want {
		t.Fatalf("inbound = %+v, want %+v", got, want)
	}
}
