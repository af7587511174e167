package badgerdb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type Config struct {
	Path     string
	InMemory bool
}

// Open opens a badger database. Badger's own log lines go through log, with
// its info chatter demoted to debug.
func Open(cfg Config, log *slog.Logger) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}

	if log != nil {
		opts = opts.WithLogger(slogAdapter{log: log.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return db, nil
}

// OpenInMemory is a shortcut used by tests.
func OpenInMemory() (*badger.DB, error) {
	return Open(Config{InMemory: true}, nil)
}

type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.log.Log(context.Background(), slog.LevelDebug, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.log.Log(context.Background(), slog.LevelDebug-4, strings.TrimSpace(fmt.Sprintf(format, args...)))
}
