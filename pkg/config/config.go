package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the YAML config file location.
const PathEnvVar = "CONFIG_PATH"

const defaultPath = "config.yaml"

type Config struct {
	AppEnv    string `koanf:"app_env"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	GRPCPort int `koanf:"grpc_port"`
	HTTPPort int `koanf:"http_port"`

	Store     StoreConfig     `koanf:"store"`
	Catalog   UpstreamConfig  `koanf:"catalog"`
	Chat      UpstreamConfig  `koanf:"chat"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Recommend RecommendConfig `koanf:"recommend"`
	Session   SessionConfig   `koanf:"session"`
}

type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// UpstreamConfig describes a best-effort HTTP collaborator. An empty URL
// disables the remote call and the built-in fallback is used instead.
type UpstreamConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type BreakerConfig struct {
	Failures    uint32        `koanf:"failures"`
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

type RecommendConfig struct {
	Limit int `koanf:"limit"`
}

// SessionConfig bounds how long an idle browsing session is kept and how
// often expired ones are swept.
type SessionConfig struct {
	IdleTTL       time.Duration `koanf:"idle_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

func defaults() Config {
	return Config{
		AppEnv:    "dev",
		LogLevel:  "info",
		LogFormat: "json",
		HTTPPort:  8080,
		GRPCPort:  8081,
		Store:     StoreConfig{Path: "data/users"},
		Catalog:   UpstreamConfig{Timeout: 5 * time.Second},
		Chat:      UpstreamConfig{Timeout: 15 * time.Second},
		Breaker:   BreakerConfig{Failures: 3, OpenTimeout: 30 * time.Second},
		Recommend: RecommendConfig{Limit: 12},
		Session:   SessionConfig{IdleTTL: 24 * time.Hour, SweepInterval: 10 * time.Minute},
	}
}

// envKeys maps the supported environment variables onto koanf paths.
var envKeys = map[string]string{
	"APP_ENV":                "app_env",
	"LOG_LEVEL":              "log_level",
	"LOG_FORMAT":             "log_format",
	"HTTP_PORT":              "http_port",
	"GRPC_PORT":              "grpc_port",
	"STORE_PATH":             "store.path",
	"STORE_IN_MEMORY":        "store.in_memory",
	"CATALOG_URL":            "catalog.url",
	"CATALOG_TIMEOUT":        "catalog.timeout",
	"CHAT_URL":               "chat.url",
	"CHAT_TIMEOUT":           "chat.timeout",
	"BREAKER_FAILURES":       "breaker.failures",
	"BREAKER_OPEN_TIMEOUT":   "breaker.open_timeout",
	"RECOMMEND_LIMIT":        "recommend.limit",
	"SESSION_IDLE_TTL":       "session.idle_ttl",
	"SESSION_SWEEP_INTERVAL": "session.sweep_interval",
}

// Load layers defaults, an optional YAML file and environment variables, in
// that order of increasing priority.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey returns "" for variables that are not ours, which makes koanf skip them.
func envKey(name string) string {
	return envKeys[strings.ToUpper(name)]
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath
	}
	return ""
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("http_port out of range: %d", c.HTTPPort))
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("grpc_port out of range: %d", c.GRPCPort))
	}
	if !c.Store.InMemory && strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store.path is required unless store.in_memory is set"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog.timeout must be positive"))
	}
	if c.Chat.Timeout <= 0 {
		errs = append(errs, errors.New("chat.timeout must be positive"))
	}
	if c.Breaker.Failures == 0 {
		errs = append(errs, errors.New("breaker.failures must be positive"))
	}
	if c.Breaker.OpenTimeout <= 0 {
		errs = append(errs, errors.New("breaker.open_timeout must be positive"))
	}
	if c.Recommend.Limit <= 0 {
		errs = append(errs, fmt.Errorf("recommend.limit must be positive, got %d", c.Recommend.Limit))
	}
	if c.Session.IdleTTL <= 0 {
		errs = append(errs, errors.New("session.idle_ttl must be positive"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session.sweep_interval must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
