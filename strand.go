package strand

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/strand/internal/compiler"
	"github.com/aretw0/strand/internal/logging"
	"github.com/aretw0/strand/internal/validator"
	loamAdapter "github.com/aretw0/strand/pkg/adapters/loam"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/ports"
)

// Report is the outcome of Engine.Validate.
type Report = validator.Report

// Engine is the high-level entry point for the strand library.
// It wraps the compiler and an optional parts library.
type Engine struct {
	compiler    *compiler.Compiler
	library     ports.PartsLibrary
	libraryPath string
	namespace   identity.Namespace
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithNamespace sets the homespace and version used to mint identities.
func WithNamespace(ns identity.Namespace) Option {
	return func(e *Engine) {
		e.namespace = ns
	}
}

// WithLibrary injects a custom parts library, bypassing the Loam one.
func WithLibrary(lib ports.PartsLibrary) Option {
	return func(e *Engine) {
		e.library = lib
	}
}

// WithLibraryPath opens a Loam parts library at path.
func WithLibraryPath(path string) Option {
	return func(e *Engine) {
		e.libraryPath = path
	}
}

// New initializes an Engine. A namespace is required; a parts library is optional.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.namespace.Homespace == "" {
		return nil, fmt.Errorf("a namespace is required (use WithNamespace)")
	}
	if eng.library == nil && eng.libraryPath != "" {
		lib, err := loamAdapter.Open(eng.libraryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open parts library: %w", err)
		}
		eng.library = lib
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("homespace", eng.namespace.Homespace)

	eng.compiler = compiler.New(
		compiler.WithLogger(eng.logger),
		compiler.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

// Namespace returns the identity configuration of the engine.
func (e *Engine) Namespace() identity.Namespace {
	return e.namespace
}

// Library returns the parts library, or nil when none is configured.
func (e *Engine) Library() ports.PartsLibrary {
	return e.library
}

// NewDocument creates an empty document in the engine namespace.
func (e *Engine) NewDocument(id string) *document.Document {
	return document.New(id, e.namespace)
}

// Insert records a pending insertion of inserted into parent at position,
// as a new design named newID.
func (e *Engine) Insert(doc *document.Document, parent, inserted string, position int, newID string) (*domain.ComponentDefinition, error) {
	return e.compiler.Insert(doc, parent, inserted, position, newID)
}

// CompileInsert materializes the recorded insertion of design id.
func (e *Engine) CompileInsert(ctx context.Context, doc *document.Document, id string) error {
	return e.compiler.CompileInsert(ctx, doc, id)
}

// AssemblePrimaryStructure records the ordered parts of design id.
func (e *Engine) AssemblePrimaryStructure(doc *document.Document, id string, parts domain.Refs) error {
	return e.compiler.AssemblePrimaryStructure(doc, id, parts)
}

// Compile concatenates the primary structure of design id, compiling pending
// sub-designs first.
func (e *Engine) Compile(ctx context.Context, doc *document.Document, id string) error {
	return e.compiler.Compile(ctx, doc, id)
}

// CompileDesign compiles design id, insertion or assembly, together with the
// pending designs it depends on.
func (e *Engine) CompileDesign(ctx context.Context, doc *document.Document, id string) error {
	return e.compiler.CompileDesign(ctx, doc, id)
}

// CompileAll compiles every pending design and returns the compiled identities.
func (e *Engine) CompileAll(ctx context.Context, doc *document.Document) ([]string, error) {
	return e.compiler.CompileAll(ctx, doc)
}

// Validate inspects a document without changing it.
func (e *Engine) Validate(doc *document.Document) *Report {
	return validator.Validate(doc)
}

// LoadManifest parses a YAML or JSON manifest into a new document.
// Parts the manifest references but does not declare are fetched from the
// parts library, when one is configured.
func (e *Engine) LoadManifest(ctx context.Context, data []byte) (*document.Document, error) {
	m, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, err
	}
	if err := e.resolveLibraryParts(ctx, m); err != nil {
		return nil, err
	}
	return e.compiler.Build(m, e.namespace)
}

func (e *Engine) resolveLibraryParts(ctx context.Context, m *compiler.Manifest) error {
	if e.library == nil {
		return nil
	}
	declared := make(map[string]bool, len(m.Parts)+len(m.Designs))
	for _, p := range m.Parts {
		declared[p.ID] = true
	}
	for _, d := range m.Designs {
		declared[d.ID] = true
	}

	var wanted []string
	for _, d := range m.Designs {
		refs := d.Assemble
		if d.Insert != nil {
			refs = []string{d.Insert.Into, d.Insert.Part}
		}
		for _, ref := range refs {
			if !declared[ref] && !slices.Contains(wanted, ref) {
				wanted = append(wanted, ref)
			}
		}
	}

	for _, id := range wanted {
		part, err := e.library.GetPart(ctx, id)
		if err != nil {
			return fmt.Errorf("part %s: %w", id, err)
		}
		m.Parts = append(m.Parts, compiler.PartSpec{
			ID:          id,
			Name:        part.Name,
			Description: part.Description,
			Roles:       part.Roles,
			Sequence:    part.Elements,
			Encoding:    part.Encoding,
		})
		e.logger.Debug("part fetched from library", "part", id)
	}
	return nil
}

// ImportParts copies parts from the library into doc as compiled leaves.
func (e *Engine) ImportParts(ctx context.Context, doc *document.Document, ids ...string) ([]*domain.ComponentDefinition, error) {
	if e.library == nil {
		return nil, fmt.Errorf("no parts library configured")
	}
	out := make([]*domain.ComponentDefinition, 0, len(ids))
	for _, id := range ids {
		part, err := e.library.GetPart(ctx, id)
		if err != nil {
			return out, fmt.Errorf("part %s: %w", id, err)
		}
		cd, err := e.importPart(doc, part)
		if err != nil {
			return out, fmt.Errorf("part %s: %w", id, err)
		}
		out = append(out, cd)
	}
	return out, nil
}

func (e *Engine) importPart(doc *document.Document, part *ports.Part) (*domain.ComponentDefinition, error) {
	encoding, err := compiler.ResolveEncoding(part.Encoding)
	if err != nil {
		return nil, err
	}
	seqID, err := doc.Namespace().Resolve(part.ID + "_seq")
	if err != nil {
		return nil, err
	}
	seq := domain.NewSequence(seqID, part.ID+"_seq", part.Elements)
	seq.Encoding = encoding
	if err := doc.AddSequences(domain.One(seq)); err != nil {
		return nil, err
	}

	cd, err := doc.CreateComponentDefinition(part.ID)
	if err != nil {
		_ = doc.RemoveSequence(seq.Identity)
		return nil, err
	}
	cd.Name = part.Name
	cd.Description = part.Description
	for _, r := range part.Roles {
		cd.Roles = append(cd.Roles, domain.ResolveRole(r))
	}
	if err := doc.SetSequence(cd.Identity, seq.Identity); err != nil {
		_ = doc.RemoveComponentDefinition(cd.Identity)
		_ = doc.RemoveSequence(seq.Identity)
		return nil, err
	}
	return cd, nil
}

// Watch returns a channel that signals when the parts library changes.
// Returns error if the library does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.library.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current parts library does not support watching")
}
