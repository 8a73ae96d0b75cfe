// path: cmd/server/config.go
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config collects the server settings. Environment variables provide
// the base values; command-line flags override them.
type Config struct {
	Addr         string        `env:"FLEXCHESS_ADDR" envDefault:":8080"`
	DB           string        `env:"FLEXCHESS_DB"`
	VariantDir   string        `env:"FLEXCHESS_VARIANT_DIR"`
	TokenSecret  string        `env:"FLEXCHESS_TOKEN_SECRET"`
	ReadTimeout  time.Duration `env:"FLEXCHESS_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"FLEXCHESS_WRITE_TIMEOUT" envDefault:"10s"`
}

// ParseConfig resolves the configuration from the environment and then
// from the given command-line arguments.
func ParseConfig(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("flex-chess-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DB, "db", cfg.DB, "sqlite database path (empty: matches live in memory only)")
	fs.StringVar(&cfg.VariantDir, "variants", cfg.VariantDir, "directory of Lua variant scripts")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "HS256 secret for match tokens (empty: auth disabled)")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
