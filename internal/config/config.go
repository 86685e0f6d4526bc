// Package config loads shell settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the shell settings.
type Config struct {
	// DatabasePath locates the authz database. ":memory:" keeps it
	// ephemeral.
	DatabasePath string `env:"ARBORSH_DB" envDefault:"arborsh.db"`

	// User names the sender commands run as. Empty runs as the console.
	User string `env:"ARBORSH_USER"`

	// LiberalFlags lets flags appear ahead of later arguments.
	LiberalFlags bool `env:"ARBORSH_LIBERAL_FLAGS" envDefault:"false"`

	// Debug lowers the log level to debug.
	Debug bool `env:"ARBORSH_DEBUG" envDefault:"false"`
}

// Load reads the .env file when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
