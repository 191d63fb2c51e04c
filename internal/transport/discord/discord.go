// Package discord is the Discord transport. Guild channels are keyed as
// "#name/ID" and direct messages by channel ID; the bot listens in every
// text channel it can see unless told to leave one.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/parlor/internal/transport"
	"github.com/keshon/parlor/pkg/retrylimit"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const sendAttempts = 3

var (
	ErrUnknownChannel   = errors.New("unknown channel")
	ErrAmbiguousChannel = errors.New("ambiguous channel name")
)

// place is what the bot knows about one Discord channel.
type place struct {
	guildID string
	name    string
}

// Bot is a Discord gateway session adapted to transport.Transport.
type Bot struct {
	token   string
	limiter *retrylimit.AdaptiveLimiter
	logger  zerolog.Logger

	mu       sync.RWMutex
	dg       *discordgo.Session
	channels map[string]place    // channel ID -> place
	muted    map[string]struct{} // channel IDs left via Leave
	selfID   string
}

var _ transport.Transport = (*Bot)(nil)

func New(token string, sendRate float64, logger zerolog.Logger) *Bot {
	r := rate.Limit(sendRate)
	return &Bot{
		token:    token,
		limiter:  retrylimit.NewAdaptiveLimiter(r, min(r, 1), r*2, 0.5, 0.5),
		logger:   logger.With().Str("transport", "discord").Logger(),
		channels: make(map[string]place),
		muted:    make(map[string]struct{}),
	}
}

func (b *Bot) Name() string { return "discord" }

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context, h transport.Handler) error {
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuilds

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.mu.Lock()
		b.selfID = r.User.ID
		b.mu.Unlock()
		b.logger.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord session ready")
	})
	dg.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		for _, ch := range g.Channels {
			b.remember(ch)
		}
	})
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessageCreate(ctx, s, m, h)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	b.mu.Lock()
	b.dg = dg
	b.mu.Unlock()

	<-ctx.Done()
	b.logger.Info().Msg("shutdown signal received, closing session")

	b.mu.Lock()
	b.dg = nil
	b.mu.Unlock()
	return dg.Close()
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, h transport.Handler) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	b.mu.RLock()
	self := b.selfID
	b.mu.RUnlock()
	if m.Author.ID == self {
		return
	}

	ch, err := s.State.Channel(m.ChannelID)
	if err != nil {
		ch = &discordgo.Channel{ID: m.ChannelID, GuildID: m.GuildID}
	}
	b.remember(ch)
	if b.isMuted(ch.ID) {
		return
	}
	h(ctx, inbound(m.Message, ch))
}

// inbound maps a Discord message to the transport form. Callers are keyed
// by user ID so grants survive renames, and user mentions are rewritten to
// bare IDs so they can be passed as command arguments.
func inbound(m *discordgo.Message, ch *discordgo.Channel) transport.Inbound {
	text := m.Content
	for _, u := range m.Mentions {
		text = strings.NewReplacer("<@"+u.ID+">", u.ID, "<@!"+u.ID+">", u.ID).Replace(text)
	}
	return transport.Inbound{
		Text:    text,
		Caller:  m.Author.ID,
		Nick:    m.Author.Username,
		Channel: channelKey(ch),
	}
}

// Send posts text to the channel named by a key from channelKey.
func (b *Bot) Send(ctx context.Context, channel, text string) error {
	dg, err := b.session()
	if err != nil {
		return err
	}
	id, ok := channelID(channel)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	ctx = b.logger.WithContext(ctx)
	err = retrylimit.WithRetryMax(ctx, func() error {
		_, err := dg.ChannelMessageSend(id, text, discordgo.WithContext(ctx))
		return classify(err)
	}, b.limiter, sendAttempts)
	if err != nil {
		return fmt.Errorf("send to %s: %w", channel, err)
	}
	return nil
}

// Join resumes listening in channel.
func (b *Bot) Join(_ context.Context, origin, channel string) error {
	id, err := b.target(origin, channel)
	if err != nil {
		return err
	}
	b.mu.Lock()
	delete(b.muted, id)
	b.mu.Unlock()
	return nil
}

// Leave stops listening in channel. The bot stays a guild member.
func (b *Bot) Leave(_ context.Context, origin, channel string) error {
	id, err := b.target(origin, channel)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.muted[id] = struct{}{}
	b.mu.Unlock()
	return nil
}

func (b *Bot) remember(ch *discordgo.Channel) {
	if ch == nil || ch.ID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// A placeholder built from a message must not erase a known name.
	if known, ok := b.channels[ch.ID]; ok && ch.Name == "" && known.name != "" {
		return
	}
	b.channels[ch.ID] = place{guildID: ch.GuildID, name: ch.Name}
}

func (b *Bot) isMuted(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.muted[id]
	return ok
}

func (b *Bot) session() (*discordgo.Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.dg == nil {
		return nil, transport.ErrNotConnected
	}
	return b.dg, nil
}

// target resolves channel, as typed by a user in origin, to a channel ID.
// A full key is taken as is; a bare "#name" is looked up in origin's guild.
func (b *Bot) target(origin, channel string) (string, error) {
	if _, err := b.session(); err != nil {
		return "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if id, ok := channelID(channel); ok {
		if _, known := b.channels[id]; known {
			return id, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}

	originID, _ := channelID(origin)
	guild := b.channels[originID].guildID
	if guild == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	var found []string
	for id, p := range b.channels {
		if p.guildID == guild && p.name != "" && strings.EqualFold("#"+p.name, channel) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousChannel, channel)
	}
}

// channelKey names a channel for the rest of the bot. Guild channels are
// "#name/ID" so same-named channels stay distinct; DMs are the bare ID.
func channelKey(ch *discordgo.Channel) string {
	if ch.Name == "" {
		return ch.ID
	}
	return "#" + ch.Name + "/" + ch.ID
}

// channelID extracts the channel ID from a key. A bare "#name" carries no
// ID.
func channelID(key string) (string, bool) {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		id := key[i+1:]
		return id, id != ""
	}
	if key == "" || strings.HasPrefix(key, "#") {
		return "", false
	}
	return key, true
}

// throttled marks a REST error caused by Discord rate limiting.
type throttled struct{ err error }

func (t throttled) Error() string   { return t.err.Error() }
func (t throttled) Unwrap() error   { return t.err }
func (t throttled) Throttled() bool { return true }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch code := rest.Response.StatusCode; {
		case code == http.StatusTooManyRequests:
			return throttled{err: err}
		case code >= 400 && code < 500:
			return retrylimit.Fatal(err)
		}
	}
	return err
}
