// Package config loads application configuration from an optional YAML
// file, TENFOLD_-prefixed environment variables and command-line flags,
// in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full application configuration.
type Config struct {
	HTTP  HTTPConfig  `koanf:"http"`
	DB    DBConfig    `koanf:"db"`
	Auth  AuthConfig  `koanf:"auth"`
	Study StudyConfig `koanf:"study"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type DBConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Required by the serve command;
	// the local study and import commands never touch it.
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

type StudyConfig struct {
	// NewCardsPerSession is the per-session budget of never-reviewed cards.
	NewCardsPerSession int `koanf:"new_cards_per_session" validate:"gt=0"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP:  HTTPConfig{Addr: ":8080"},
		DB:    DBConfig{Path: "tenfold.db"},
		Auth:  AuthConfig{TokenTTL: 72 * time.Hour},
		Study: StudyConfig{NewCardsPerSession: 20},
	}
}

// Load merges defaults, the YAML file at path (if non-empty), the
// environment and the given flag set. Environment keys map double
// underscores to nesting: TENFOLD_AUTH__JWT_SECRET → auth.jwt_secret.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("TENFOLD_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "TENFOLD_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
