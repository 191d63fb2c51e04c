// Package irc is the IRC transport, built on ergochat/irc-go.
package irc

import (
	"context"
	"crypto/tls"
	"fmt"
	stdlog "log"
	"strings"
	"sync"

	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"
	"github.com/keshon/parlor/internal/transport"
	"github.com/keshon/parlor/pkg/retrylimit"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// sendAttempts bounds retries of one outbound line.
const sendAttempts = 3

type Config struct {
	Server   string // host:port
	Nick     string
	TLS      bool
	Channels []string // joined on every (re)connect
	SendRate float64  // lines per second
}

// Client is an IRC connection that joins the configured channels and
// delivers PRIVMSG lines to the bot.
type Client struct {
	cfg     Config
	limiter *retrylimit.AdaptiveLimiter
	logger  zerolog.Logger

	mu       sync.RWMutex
	conn     *ircevent.Connection
	channels []string
}

var _ transport.Transport = (*Client)(nil)

func New(cfg Config, logger zerolog.Logger) *Client {
	r := rate.Limit(cfg.SendRate)
	return &Client{
		cfg:      cfg,
		limiter:  retrylimit.NewAdaptiveLimiter(r, min(r, 1), r*2, 0.5, 0.5),
		logger:   logger.With().Str("transport", "irc").Logger(),
		channels: append([]string(nil), cfg.Channels...),
	}
}

func (c *Client) Name() string { return "irc" }

// Run connects and blocks until ctx is done. ircevent reconnects on its
// own after network errors.
func (c *Client) Run(ctx context.Context, h transport.Handler) error {
	conn := &ircevent.Connection{
		Server:      c.cfg.Server,
		Nick:        c.cfg.Nick,
		User:        c.cfg.Nick,
		RealName:    c.cfg.Nick,
		UseTLS:      c.cfg.TLS,
		QuitMessage: "bye",
		Log:         stdlog.New(c.logger, "", 0),
	}
	if c.cfg.TLS {
		host, _, _ := strings.Cut(c.cfg.Server, ":")
		conn.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}

	conn.AddConnectCallback(func(ircmsg.Message) {
		for _, ch := range c.Channels() {
			if err := conn.Join(ch); err != nil {
				c.logger.Warn().Err(err).Str("channel", ch).Msg("join failed")
			}
		}
		c.logger.Info().Str("server", c.cfg.Server).Str("nick", conn.CurrentNick()).Msg("connected")
	})
	conn.AddCallback("PRIVMSG", func(e ircmsg.Message) {
		in, ok := inboundFrom(e, conn.CurrentNick())
		if !ok {
			return
		}
		h(ctx, in)
	})

	if err := conn.Connect(); err != nil {
		return fmt.Errorf("connect %s: %w", c.cfg.Server, err)
	}
	c.setConn(conn)
	defer c.setConn(nil)

	done := make(chan struct{})
	go func() {
		conn.Loop()
		close(done)
	}()

	select {
	case <-ctx.Done():
		conn.Quit()
		<-done
		return nil
	case <-done:
		return fmt.Errorf("irc loop stopped")
	}
}

// Send delivers text as a PRIVMSG, paced by the adaptive limiter. Multi-line
// text is split into separate messages.
func (c *Client) Send(ctx context.Context, channel, text string) error {
	conn := c.current()
	if conn == nil {
		return transport.ErrNotConnected
	}
	ctx = c.logger.WithContext(ctx)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		err := retrylimit.WithRetryMax(ctx, func() error {
			return conn.Privmsg(channel, line)
		}, c.limiter, sendAttempts)
		if err != nil {
			return fmt.Errorf("privmsg %s: %w", channel, err)
		}
	}
	return nil
}

func (c *Client) Join(_ context.Context, _, channel string) error {
	conn := c.current()
	if conn == nil {
		return transport.ErrNotConnected
	}
	if err := conn.Join(channel); err != nil {
		return fmt.Errorf("join %s: %w", channel, err)
	}
	c.mu.Lock()
	if !containsFold(c.channels, channel) {
		c.channels = append(c.channels, channel)
	}
	c.mu.Unlock()
	return nil
}

func (c *Client) Leave(_ context.Context, _, channel string) error {
	conn := c.current()
	if conn == nil {
		return transport.ErrNotConnected
	}
	if err := conn.Part(channel); err != nil {
		return fmt.Errorf("part %s: %w", channel, err)
	}
	c.mu.Lock()
	c.channels = removeFold(c.channels, channel)
	c.mu.Unlock()
	return nil
}

// Channels returns the channels rejoined after a reconnect.
func (c *Client) Channels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.channels...)
}

func (c *Client) current() *ircevent.Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Client) setConn(conn *ircevent.Connection) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// inboundFrom converts a PRIVMSG into an inbound line. Private messages
// are answered to the sender. Lines from our own nick are dropped.
func inboundFrom(e ircmsg.Message, me string) (transport.Inbound, bool) {
	if len(e.Params) < 2 {
		return transport.Inbound{}, false
	}
	nick := e.Nick()
	if nick != "" && strings.EqualFold(nick, me) {
		return transport.Inbound{}, false
	}
	target := e.Params[0]
	if strings.EqualFold(target, me) {
		target = nick
	}
	if target == "" {
		return transport.Inbound{}, false
	}
	return transport.Inbound{Text: e.Params[1], Caller: nick, Channel: target}, true
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func removeFold(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if !strings.EqualFold(v, s) {
			out = append(out, v)
		}
	}
	return out
}
