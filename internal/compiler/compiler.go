package compiler

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/strand/internal/logging"
	"github.com/aretw0/strand/pkg/domain"
)

// Compiler turns pending insertion and assembly state into concrete sequences.
// It is synchronous and holds no per-document state; callers serialize access
// to a document (see pkg/session).
type Compiler struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Compiler) {
		c.hooks = hooks
	}
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) event(design string, kind domain.CompileKind) *domain.CompileEvent {
	return &domain.CompileEvent{
		Timestamp: c.now(),
		Design:    design,
		Kind:      kind,
	}
}

func (c *Compiler) emitStart(ctx context.Context, e *domain.CompileEvent) {
	if c.hooks.OnCompileStart != nil {
		c.hooks.OnCompileStart(ctx, e)
	}
}

func (c *Compiler) emitDone(ctx context.Context, e *domain.CompileEvent) {
	c.logger.Debug("design compiled",
		"design", e.Design,
		"kind", e.Kind,
		"nested", e.Nested,
		"length", e.Length,
	)
	if c.hooks.OnCompileDone != nil {
		c.hooks.OnCompileDone(ctx, e)
	}
}

func (c *Compiler) emitError(ctx context.Context, e *domain.CompileEvent, err error) error {
	e.Err = err
	c.logger.Debug("compile failed", "design", e.Design, "kind", e.Kind, "err", err)
	if c.hooks.OnCompileError != nil {
		c.hooks.OnCompileError(ctx, e)
	}
	return err
}

// finish commits a resolved plan set and reports every compiled design.
func (c *Compiler) finish(ctx context.Context, r *resolver, root *domain.CompileEvent) error {
	if err := r.prepare(); err != nil {
		return c.emitError(ctx, root, err)
	}
	if err := r.commit(); err != nil {
		return c.emitError(ctx, root, err)
	}
	for _, id := range r.order {
		p := r.plans[id]
		e := c.event(id, p.kind)
		e.Nested = id != root.Design
		e.Length = len(p.elements)
		c.emitDone(ctx, e)
	}
	return nil
}
