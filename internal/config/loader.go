package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "NUCOCC_"
	envFileVar = "NUCOCC_CONFIG"
)

// Load builds a Config from defaults, an optional ./.env file, an optional
// YAML file and NUCOCC_* environment variables, then validates it.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, ".env")
}

// LoadFrom is Load with an explicit dotenv path; an empty path skips that layer.
func LoadFrom(_ context.Context, dotenv string) (*Config, error) {
	if dotenv != "" {
		// godotenv never overrides variables already present in the environment.
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, dotenv, err)
		}
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// NUCOCC_MIN_CHUNK_SIZE -> min_chunk_size; keys are flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envFileVar {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
