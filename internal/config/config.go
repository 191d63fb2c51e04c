// Package config loads bot settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

type Config struct {
	Transport     string   `env:"TRANSPORT" envDefault:"irc"`
	CommandMarker string   `env:"COMMAND_MARKER" envDefault:"!"`
	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	StoragePath   string   `env:"STORAGE_PATH" envDefault:"bot_data.db"`
	IRCServer     string   `env:"IRC_SERVER" envDefault:"irc.moparisthebest.com:6697"`
	IRCNick       string   `env:"IRC_NICK" envDefault:"rusty"`
	IRCTLS        bool     `env:"IRC_TLS" envDefault:"true"`
	IRCChannels   []string `env:"IRC_CHANNELS" envDefault:"#testes" envSeparator:","`
	DiscordToken  string   `env:"DISCORD_TOKEN"`
	SendRate      float64  `env:"SEND_RATE" envDefault:"2"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string   `env:"LOG_FORMAT" envDefault:"console"`
	LogFile       string   `env:"LOG_FILE"`
	Admins        []string `env:"ADMINS" envSeparator:","`
}

var (
	transports = []string{"irc", "discord", "console"}
	drivers    = []string{"sqlite", "json"}
	formats    = []string{"console", "json"}
)

// New loads DefaultEnvFile, if present, and parses the environment.
func New() (*Config, error) {
	return Load(DefaultEnvFile)
}

// Load reads envFile into the process environment without overriding
// variables that are already set, then parses the environment. A missing
// file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other. Call it after flags
// have been applied.
func (c *Config) Validate() error {
	if !slices.Contains(transports, c.Transport) {
		return fmt.Errorf("unknown transport %q (want one of %v)", c.Transport, transports)
	}
	if !slices.Contains(drivers, c.StorageDriver) {
		return fmt.Errorf("unknown storage driver %q (want one of %v)", c.StorageDriver, drivers)
	}
	if !slices.Contains(formats, c.LogFormat) {
		return fmt.Errorf("unknown log format %q (want one of %v)", c.LogFormat, formats)
	}
	if c.CommandMarker == "" {
		return errors.New("COMMAND_MARKER must not be empty")
	}
	if c.StoragePath == "" {
		return errors.New("STORAGE_PATH must not be empty")
	}
	if c.SendRate <= 0 {
		return fmt.Errorf("SEND_RATE must be positive, got %v", c.SendRate)
	}
	switch c.Transport {
	case "discord":
		if c.DiscordToken == "" {
			return errors.New("DISCORD_TOKEN is not set")
		}
	case "irc":
		if c.IRCServer == "" || c.IRCNick == "" {
			return errors.New("IRC_SERVER and IRC_NICK are required")
		}
	}
	return nil
}
