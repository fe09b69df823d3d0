package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/strand"
	"github.com/aretw0/strand/internal/presentation/graph"
	"github.com/aretw0/strand/internal/presentation/tui"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/observability"
)

// CompileOptions configures RunCompile.
type CompileOptions struct {
	Manifest string
	// Design compiles a single design instead of every pending one.
	Design string
	// DocID overrides the document ID declared by the manifest.
	DocID string
	// NoSave skips persisting the compiled document.
	NoSave bool
	// Metrics writes Prometheus metrics to the error stream when done.
	Metrics bool
}

// RunCompile loads a manifest, compiles it and persists the result.
func RunCompile(ctx context.Context, cfg Config, logger *slog.Logger, opts CompileOptions, stdout, stderr io.Writer) error {
	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		return err
	}
	hooks := observability.Combine(observability.LoggingHooks(logger), metrics.Hooks())

	eng, err := NewEngine(cfg, logger, hooks)
	if err != nil {
		return err
	}
	doc, err := loadManifest(ctx, eng, opts.Manifest)
	if err != nil {
		return err
	}
	if opts.DocID != "" {
		doc.ID = opts.DocID
	}

	compiled, err := compile(ctx, eng, doc, opts.Design)
	if err != nil {
		return err
	}
	for _, w := range eng.Validate(doc).Warnings() {
		logger.Warn("design left uncompiled", "design", w.Design, "reason", w.Message)
	}

	if !opts.NoSave {
		mgr, closeStore, err := NewManager(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				logger.Warn("Failed to close store", "err", err)
			}
		}()
		if err := mgr.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to save document %s: %w", doc.ID, err)
		}
		logger.Info("document saved", "doc_id", doc.ID, "backend", cfg.Store.Backend, "compiled", len(compiled))
	}

	if err := render(stdout, tui.Report(doc, compiled...)); err != nil {
		return err
	}
	if opts.Metrics {
		return metrics.WriteText(stderr)
	}
	return nil
}

func compile(ctx context.Context, eng *strand.Engine, doc *document.Document, design string) ([]string, error) {
	if design == "" {
		return eng.CompileAll(ctx, doc)
	}
	id, err := doc.Resolve(design)
	if err != nil {
		return nil, err
	}
	if err := eng.CompileDesign(ctx, doc, id); err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// RunResume compiles the designs a stored document still holds pending (or
// only design, when set) and saves it back, under the document lock.
func RunResume(ctx context.Context, cfg Config, logger *slog.Logger, docID, design string, w io.Writer) error {
	eng, err := NewEngine(cfg, logger, observability.LoggingHooks(logger))
	if err != nil {
		return err
	}
	mgr, closeStore, err := NewManager(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	var (
		doc      *document.Document
		compiled []string
	)
	err = mgr.Update(ctx, docID, func(ctx context.Context, d *document.Document) error {
		var err error
		compiled, err = compile(ctx, eng, d, design)
		doc = d
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to resume document %s: %w", docID, err)
	}
	logger.Info("document saved", "doc_id", docID, "backend", cfg.Store.Backend, "compiled", len(compiled))
	return render(w, tui.Report(doc, compiled...))
}

// RunValidate loads a manifest and reports its issues.
// It returns the joined errors, if any.
func RunValidate(ctx context.Context, cfg Config, logger *slog.Logger, manifest string, w io.Writer) error {
	eng, err := NewEngine(cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	doc, err := loadManifest(ctx, eng, manifest)
	if err != nil {
		return err
	}
	report := eng.Validate(doc)
	fmt.Fprintln(w, report.String())
	return report.Err()
}

// RunGraph prints the Mermaid graph of a manifest. With compiled set, pending
// designs are compiled first so the graph shows their lengths.
func RunGraph(ctx context.Context, cfg Config, logger *slog.Logger, manifest, focus string, compiled bool, w io.Writer) error {
	eng, err := NewEngine(cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	doc, err := loadManifest(ctx, eng, manifest)
	if err != nil {
		return err
	}
	if compiled {
		if _, err := eng.CompileAll(ctx, doc); err != nil {
			return err
		}
	}
	var overlay *graph.Overlay
	if focus != "" {
		overlay = &graph.Overlay{Focus: focus}
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(doc, overlay))
	return err
}

// RunShow prints a persisted document.
func RunShow(ctx context.Context, cfg Config, logger *slog.Logger, docID string, w io.Writer) error {
	mgr, closeStore, err := NewManager(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	doc, err := mgr.Load(ctx, docID)
	if err != nil {
		return err
	}
	return render(w, tui.Report(doc))
}

// RunList prints the IDs of persisted documents.
func RunList(ctx context.Context, cfg Config, logger *slog.Logger, w io.Writer) error {
	mgr, closeStore, err := NewManager(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	ids, err := mgr.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

func loadManifest(ctx context.Context, eng *strand.Engine, path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	doc, err := eng.LoadManifest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return doc, nil
}

func render(w io.Writer, markdown string) error {
	out, err := tui.RendererFor(w)(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
