package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM. The received
// signal is logged through log when it is non-nil.
func WithSignals(parent context.Context, log *slog.Logger) (context.Context, context.CancelFunc) {
	return withChannel(parent, log, func(ch chan<- os.Signal) func() {
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		return func() { signal.Stop(ch) }
	})
}

func withChannel(parent context.Context, log *slog.Logger, subscribe func(chan<- os.Signal) func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	stop := subscribe(ch)

	go func() {
		defer stop()
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			if log != nil {
				log.Info("signal received", slog.String("signal", sig.String()))
			}
			cancel()
		}
	}()

	return ctx, cancel
}
