package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a goroutine that survives cancellation of the
// caller's context. The logger bound to ctx is carried over; panics are
// recovered and logged, and a returned error is logged rather than
// propagated. Used for fire-and-forget work such as notifications that
// must never block or fail the main flow.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	detached := ctxlog.With(context.Background(), ctxlog.From(ctx))

	go func() {
		logger := ctxlog.From(detached)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in dispatched task",
					"task", name,
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(detached); err != nil {
			logger.Error("dispatched task failed", "task", name, "error", err)
		}
	}()
}
