package bot

import (
	"context"
	"sync"

	"github.com/keshon/parlor/internal/message"
	"github.com/keshon/parlor/internal/transport"
	"github.com/rs/zerolog"
)

// Bot feeds one transport into a dispatcher.
type Bot struct {
	transport  transport.Transport
	dispatcher *Dispatcher
	marker     string
	logger     zerolog.Logger

	wg sync.WaitGroup
}

func New(t transport.Transport, d *Dispatcher, marker string, logger zerolog.Logger) *Bot {
	if marker == "" {
		marker = message.DefaultMarker
	}
	return &Bot{
		transport:  t,
		dispatcher: d,
		marker:     marker,
		logger:     logger.With().Str("transport", t.Name()).Logger(),
	}
}

// Run blocks until the transport stops. Each command line is handled on its
// own goroutine; Run waits for them before returning.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info().Msg("bot starting")
	err := b.transport.Run(ctx, b.handle)
	b.wg.Wait()
	b.logger.Info().Err(err).Msg("bot stopped")
	return err
}

func (b *Bot) handle(ctx context.Context, in transport.Inbound) {
	m := message.Parse(in.Text, in.Caller, in.Channel, b.marker)
	if !m.IsCommand() {
		return
	}
	m.Nick = in.Nick

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.reply(ctx, m)
	}()
}

// reply sends the replies of one message in order. A failed send is logged
// and the rest are still attempted.
func (b *Bot) reply(ctx context.Context, m *message.Message) {
	for _, line := range b.dispatcher.Dispatch(ctx, m) {
		if err := b.transport.Send(ctx, m.Channel, line); err != nil {
			b.logger.Warn().Err(err).
				Str("channel", m.Channel).
				Str("command", m.Command).
				Msg("reply not delivered")
		}
	}
}
