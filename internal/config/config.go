// Package config loads the runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/pipeline-components/pkg/client"
	"github.com/Sternrassler/pipeline-components/pkg/logging"
	"github.com/Sternrassler/pipeline-components/pkg/pagination"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "COMPONENTS_"

// Config is the process configuration.
type Config struct {
	ListenAddr  string           `validate:"required,hostname_port"`
	RedisURL    string           `validate:"omitempty"`
	LogLevel    logging.LogLevel `validate:"required,oneof=debug info warn error"`
	LogPretty   bool
	UserAgent   string        `validate:"required"`
	MaxPages    int           `validate:"gte=1"`
	HTTPTimeout time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ListenAddr:  ":8080",
		LogLevel:    logging.LevelInfo,
		UserAgent:   client.DefaultUserAgent,
		MaxPages:    pagination.DefaultConfig().MaxPages,
		HTTPTimeout: 30 * time.Second,
	}
}

// Load reads the given .env files (missing files are skipped) and then the
// environment. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Default()
	var errs []error

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)

	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		level, err := logging.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLOG_LEVEL: %w", EnvPrefix, err))
		}
		cfg.LogLevel = level
	}
	if v, ok := lookupEnv("LOG_PRETTY"); ok {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLOG_PRETTY: %w", EnvPrefix, err))
		}
		cfg.LogPretty = pretty
	}
	if v, ok := lookupEnv("MAX_PAGES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_PAGES: %w", EnvPrefix, err))
		}
		cfg.MaxPages = n
	}
	if v, ok := lookupEnv("HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sHTTP_TIMEOUT: %w", EnvPrefix, err))
		}
		cfg.HTTPTimeout = d
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
	}
	return nil
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Pretty = c.LogPretty
	return cfg
}

// Redis connects to the configured Redis. It returns nil when no URL is set.
// Both redis:// URLs and plain host:port addresses are accepted.
func (c Config) Redis() (*redis.Client, error) {
	if c.RedisURL == "" {
		return nil, nil
	}
	if !strings.Contains(c.RedisURL, "://") {
		return redis.NewClient(&redis.Options{Addr: c.RedisURL}), nil
	}

	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func getEnv(key, defaultValue string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return defaultValue
}
