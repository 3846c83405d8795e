package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOVERY MIDDLEWARE
// Catches panics in handlers so one crashing command never takes down the
// polling loop. The panic is logged with its stack trace and surfaced as
// a regular error.
// ══════════════════════════════════════════════════════════════════════════════

// Handler is the unit of work the middleware chain wraps.
type Handler func(ctx context.Context) error

// Recovery converts handler panics into errors.
type Recovery struct {
	logger *slog.Logger
}

// NewRecovery creates a new Recovery middleware.
func NewRecovery(logger *slog.Logger) *Recovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recovery{logger: logger.With("middleware", "recovery")}
}

// Wrap returns a handler that recovers panics from next.
func (r *Recovery) Wrap(next Handler) Handler {
	return func(ctx context.Context) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("handler panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				err = fmt.Errorf("handler panic: %v", rec)
			}
		}()
		return next(ctx)
	}
}
