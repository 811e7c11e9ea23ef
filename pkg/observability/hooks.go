package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/ltree/pkg/domain"
)

// LoggingHooks logs every lifecycle event at Debug, and failed draws at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			logger.DebugContext(ctx, "signature generated",
				"rule", e.Rule,
				"iterations", e.Iterations,
				"length", e.Length,
				"cache_hit", e.CacheHit,
				"duration", e.Duration,
			)
		},
		OnDraw: func(ctx context.Context, e *domain.DrawEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "draw failed", "iterations", e.Iterations, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "tree drawn",
				"iterations", e.Iterations,
				"segments", e.Stats.Segments,
				"leaves", e.Stats.Leaves,
				"regenerated", e.Regenerated,
				"duration", e.Duration,
			)
		},
	}
}

// Chain fans each event out to every non-nil hook in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			for _, h := range hooks {
				if h.OnGenerate != nil {
					h.OnGenerate(ctx, e)
				}
			}
		},
		OnDraw: func(ctx context.Context, e *domain.DrawEvent) {
			for _, h := range hooks {
				if h.OnDraw != nil {
					h.OnDraw(ctx, e)
				}
			}
		},
	}
}
