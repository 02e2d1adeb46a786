package collector

import (
	"context"

	"go.uber.org/zap"
)

// Supervise runs task in its own goroutine and restarts it if it panics,
// logging the recovered value rather than bringing down the whole bot over
// a single collector fault. It returns immediately; task is expected to
// block until ctx is cancelled. A task that panics or returns before ctx is
// cancelled is restarted at once: there is no delay between runs and no
// heartbeat bump on restart.
func Supervise(ctx context.Context, name string, log *zap.Logger, task func(ctx context.Context)) {
	go func() {
		for {
			if ctx.Err() != nil {
				return
			}
			runGuarded(ctx, name, log, task)
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func runGuarded(ctx context.Context, name string, log *zap.Logger, task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("collector task panicked, restarting", zap.String("task", name), zap.Any("panic", r))
		}
	}()
	task(ctx)
}
