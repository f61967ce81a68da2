// Package config defines the runtime configuration for the connect-four
// server and its helpers for loading values from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/mpiech/connect4-server/game/board"
)

// Config holds every tuneable for one server process. Values come from
// the environment first (C4_* variables) and may be overridden by CLI
// flags.
type Config struct {
	// ListenAddr is the TCP game endpoint.
	ListenAddr string `env:"C4_LISTEN_ADDR" envDefault:":12345"`

	// HTTPAddr serves the WebSocket player endpoint and the status API.
	// Empty disables the HTTP listener entirely.
	HTTPAddr string `env:"C4_HTTP_ADDR" envDefault:""`

	// Board geometry. The wire format is sized by these, so both sides
	// of a connection must agree on them.
	Rows int `env:"C4_ROWS" envDefault:"9"`
	Cols int `env:"C4_COLS" envDefault:"8"`

	// MaxGames is the hard concurrent-session limit; joins beyond it
	// are rejected.
	MaxGames int `env:"C4_MAX_GAMES" envDefault:"10"`

	// Debug adds file:line to log output.
	Debug bool `env:"C4_DEBUG" envDefault:"false"`

	// NgrokEnabled serves the HTTP surface through an ngrok tunnel as
	// well, for sharing a development server without port forwarding.
	// The standard NGROK_* variable names are honored so an existing
	// ngrok setup works unchanged.
	NgrokEnabled bool   `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuth    string `env:"NGROK_AUTHTOKEN" envDefault:""`
	NgrokDomain  string `env:"NGROK_DOMAIN" envDefault:""`
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Rows < board.WinLength || c.Cols < board.WinLength {
		return fmt.Errorf("grid %dx%d is too small for %d in a row", c.Rows, c.Cols, board.WinLength)
	}
	if c.Rows > 64 || c.Cols > 64 {
		return fmt.Errorf("grid %dx%d exceeds the 64x64 maximum", c.Rows, c.Cols)
	}
	if c.MaxGames < 1 {
		return fmt.Errorf("max games must be at least 1, got %d", c.MaxGames)
	}
	return nil
}
