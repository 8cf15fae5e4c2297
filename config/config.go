// Package config loads the tunables for call setup from the environment.
//
// The values cover knobs the signaling server may want to control per
// deployment: the hangup timeout that bounds how long a call may sit in a
// terminating state, the protocol layer range advertised to peers, and the
// media transport's init/receive timeouts. Environment variables override
// the defaults; an optional env file (ENV_FILE, falling back to .env) is
// loaded first.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the call-setup tunables.
type Config struct {
	// HangupTimeout bounds Busy and hangup-in-flight states; when it
	// expires the timeout guard forces the call to Ended.
	HangupTimeout time.Duration `env:"CALL_HANGUP_TIMEOUT" envDefault:"5s"`

	// MinLayer and MaxLayer bound the media protocol versions advertised
	// in the protocol capability record.
	MinLayer int32 `env:"CALL_MIN_LAYER" envDefault:"65"`
	MaxLayer int32 `env:"CALL_MAX_LAYER" envDefault:"65"`

	// ControllerInitTimeout and ControllerRecvTimeout are handed to the
	// media transport at creation time.
	ControllerInitTimeout time.Duration `env:"CALL_CONTROLLER_INIT_TIMEOUT" envDefault:"30s"`
	ControllerRecvTimeout time.Duration `env:"CALL_CONTROLLER_RECV_TIMEOUT" envDefault:"10s"`
}

// Load reads the env file named by ENV_FILE (or .env when unset, if
// present) and parses the configuration from environment variables.
func Load() (Config, error) {
	if envfile := os.Getenv("ENV_FILE"); envfile != "" {
		if err := godotenv.Load(envfile); err != nil {
			return Config{}, fmt.Errorf("loading env file %q: %w", envfile, err)
		}
	} else {
		// A missing default .env is not an error.
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing call config: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "Load",
		"hangup_timeout": cfg.HangupTimeout,
		"min_layer":      cfg.MinLayer,
		"max_layer":      cfg.MaxLayer,
	}).Debug("Call configuration loaded")

	return cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment.
func Default() Config {
	return Config{
		HangupTimeout:         5 * time.Second,
		MinLayer:              65,
		MaxLayer:              65,
		ControllerInitTimeout: 30 * time.Second,
		ControllerRecvTimeout: 10 * time.Second,
	}
}
