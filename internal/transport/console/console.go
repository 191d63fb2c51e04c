// Package console is a line-oriented transport over a reader and a writer,
// used for local runs and tests.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/keshon/parlor/internal/transport"
)

// DefaultChannel is the channel console lines arrive on.
const DefaultChannel = "#console"

// Console reads commands from in and writes replies to out as
// "<channel> text" lines. Every line is attributed to Caller.
type Console struct {
	in     io.Reader
	out    io.Writer
	caller string

	mu       sync.Mutex
	channel  string
	channels []string
}

var _ transport.Transport = (*Console)(nil)

func New(in io.Reader, out io.Writer, caller string) *Console {
	return &Console{
		in:       in,
		out:      out,
		caller:   caller,
		channel:  DefaultChannel,
		channels: []string{DefaultChannel},
	}
}

func (c *Console) Name() string { return "console" }

// Run returns nil at end of input.
func (c *Console) Run(ctx context.Context, h transport.Handler) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			c.mu.Lock()
			ch := c.channel
			c.mu.Unlock()
			h(ctx, transport.Inbound{Text: line, Caller: c.caller, Channel: ch})
		}
	}
}

func (c *Console) Send(_ context.Context, channel, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "<%s> %s\n", channel, text)
	return err
}

// Join makes channel the one new lines arrive on.
func (c *Console) Join(_ context.Context, _, channel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.channels, channel) {
		c.channels = append(c.channels, channel)
	}
	c.channel = channel
	return nil
}

// Leave drops channel; lines fall back to the most recently joined one.
func (c *Console) Leave(_ context.Context, _, channel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = slices.DeleteFunc(c.channels, func(s string) bool { return s == channel })
	if len(c.channels) == 0 {
		c.channels = []string{DefaultChannel}
	}
	c.channel = c.channels[len(c.channels)-1]
	return nil
}

// Channels returns the joined channels in join order.
func (c *Console) Channels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.channels)
}
