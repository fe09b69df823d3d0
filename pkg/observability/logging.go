package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/strand/pkg/domain"
)

// LoggingHooks returns hooks that write an audit line per compile event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompileDone: func(ctx context.Context, e *domain.CompileEvent) {
			logger.InfoContext(ctx, "design compiled",
				"design", e.Design,
				"kind", e.Kind,
				"nested", e.Nested,
				"length", e.Length,
			)
		},
		OnCompileError: func(ctx context.Context, e *domain.CompileEvent) {
			logger.WarnContext(ctx, "compile failed",
				"design", e.Design,
				"kind", e.Kind,
				"reason", Reason(e.Err),
				"err", e.Err,
			)
		},
	}
}

// Combine chains several hook sets; each callback runs in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnCompileStart = chain(out.OnCompileStart, h.OnCompileStart)
		out.OnCompileDone = chain(out.OnCompileDone, h.OnCompileDone)
		out.OnCompileError = chain(out.OnCompileError, h.OnCompileError)
	}
	return out
}

func chain(a, b func(context.Context, *domain.CompileEvent)) func(context.Context, *domain.CompileEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *domain.CompileEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
