package breaker

import (
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

type Config struct {
	Name string

	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32

	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration
}

// New builds a breaker that trips after cfg.Failures consecutive failures and
// logs every state change.
func New[T any](cfg Config, log *slog.Logger) *gobreaker.CircuitBreaker[T] {
	if cfg.Failures == 0 {
		cfg.Failures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log == nil {
				return
			}
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}
