package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "SKILLBOARD_"
	envConfig  = "SKILLBOARD_CONFIG"
	dotEnvFile = ".env"
)

// listKeys hold comma-separated values when read from env.
var listKeys = map[string]bool{
	"team_ids":        true,
	"sinks":           true,
	"qualified_teams": true,
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SKILLBOARD_CONFIG is set
//  3. env (prefix SKILLBOARD_), with a local .env file loaded first if present
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, "")
}

// LoadFile is Load with an explicit YAML path that takes priority over
// SKILLBOARD_CONFIG. An empty path falls back to the env var.
func LoadFile(_ context.Context, path string) (*Config, error) {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotEnvFile, err)
	}

	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SKILLBOARD_TEAM_IDS=1,2,3 -> team_ids: ["1","2","3"]
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if k.Exists("sinks") {
		// decode into a fresh slice instead of overlaying the default
		cfg.Sinks = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations Load cannot express through defaults.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SeasonID <= 0:
		return fmt.Errorf("%w: season_id must be positive", ErrInvalidConfig)
	case c.PageSize <= 0:
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	case len(c.Sinks) == 0:
		return fmt.Errorf("%w: at least one sink is required", ErrInvalidConfig)
	}
	for _, s := range c.Sinks {
		switch s {
		case SinkFile, SinkRedis, SinkSQL:
		case SinkS3:
			if c.S3Bucket == "" {
				return fmt.Errorf("%w: s3 sink requires s3_bucket", ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: unknown sink %q", ErrInvalidConfig, s)
		}
	}
	return nil
}

// ValidateFetch checks what a RobotEvents fetch needs on top of Validate.
func (c *Config) ValidateFetch() error {
	if strings.TrimSpace(c.APIToken) == "" {
		return fmt.Errorf("%w: api_token is required to fetch from RobotEvents", ErrInvalidConfig)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
