package main

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// shutdowner abstracts the authenticator so tests can verify cleanup behavior
// without constructing real infrastructure dependencies.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup constructs the shutdown hook: drain pending last-seen writes, then close the shared store.
// The drain gets its own deadline because the application context is already cancelled by then.
func newCleanup(timeout time.Duration, authenticator shutdowner, store io.Closer) func() {
	return func() {
		if authenticator != nil {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			if err := authenticator.Shutdown(ctx); err != nil {
				slog.Error("failed to shut down authenticator", slog.String("error", err.Error()))
			}
			cancel()
		}

		if store != nil {
			if err := store.Close(); err != nil {
				slog.Error("failed to close store", slog.String("error", err.Error()))
			}
		}
	}
}
