// cmd/parlor/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/parlor/internal/bot"
	"github.com/keshon/parlor/internal/config"
	"github.com/keshon/parlor/internal/logging"
	"github.com/keshon/parlor/internal/permission"
	"github.com/keshon/parlor/internal/session"
	"github.com/keshon/parlor/internal/storage/backend"
	"github.com/keshon/parlor/internal/transport"
	"github.com/keshon/parlor/internal/transport/console"
	"github.com/keshon/parlor/internal/transport/discord"
	"github.com/keshon/parlor/internal/transport/irc"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const appName = "parlor"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet(appName, pflag.ExitOnError)
	envFile := flags.String("env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	transportName := flags.String("transport", "", "chat transport: irc, discord or console (overrides TRANSPORT)")
	logLevel := flags.String("log-level", "", "log level (overrides LOG_LEVEL)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *transportName != "" {
		cfg.Transport = *transportName
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}, os.Stderr)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	logger.Info().Str("transport", cfg.Transport).Str("storage", cfg.StorageDriver).Msgf("Starting %s bot...", appName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	store, err := backend.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	if err := permission.SeedAdmins(ctx, store, cfg.Admins); err != nil {
		return err
	}

	tr := newTransport(cfg, logger)
	sessions := session.New()
	reg := bot.NewRegistry(bot.Deps{
		Store:    store,
		Sessions: sessions,
		Mover:    tr,
		Marker:   cfg.CommandMarker,
	})
	b := bot.New(tr, bot.NewDispatcher(reg, logger), cfg.CommandMarker, logger)

	// The console transport returns at end of input; stop the group with it.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		return b.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Int("active_games", sessions.Active()).Msg("shutting down")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot: %w", err)
	}
	logger.Info().Msg("bot exited cleanly")
	return nil
}

func newTransport(cfg *config.Config, logger zerolog.Logger) transport.Transport {
	switch cfg.Transport {
	case "discord":
		return discord.New(cfg.DiscordToken, cfg.SendRate, logger)
	case "console":
		return console.New(os.Stdin, os.Stdout, os.Getenv("USER"))
	default:
		return irc.New(irc.Config{
			Server:   cfg.IRCServer,
			Nick:     cfg.IRCNick,
			TLS:      cfg.IRCTLS,
			Channels: cfg.IRCChannels,
			SendRate: cfg.SendRate,
		}, logger)
	}
}
