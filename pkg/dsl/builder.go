package dsl

import (
	"fmt"

	"github.com/aretw0/strand/internal/compiler"
	"github.com/aretw0/strand/pkg/adapters/memory"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/ports"
)

// Builder manages the document construction. Declaration order is kept.
type Builder struct {
	docID   string
	parts   []*PartBuilder
	designs []*DesignBuilder
	index   map[string]any
}

// New creates a new document builder.
func New(docID string) *Builder {
	return &Builder{
		docID: docID,
		index: make(map[string]any),
	}
}

// Part declares a leaf part. If the part already exists, it returns the existing builder.
func (b *Builder) Part(id string) *PartBuilder {
	if pb, ok := b.index[id].(*PartBuilder); ok {
		return pb
	}
	pb := &PartBuilder{spec: compiler.PartSpec{ID: id}, builder: b}
	b.parts = append(b.parts, pb)
	b.index[id] = pb
	return pb
}

// Design declares a composite design. If the design already exists, it returns the existing builder.
func (b *Builder) Design(id string) *DesignBuilder {
	if db, ok := b.index[id].(*DesignBuilder); ok {
		return db
	}
	db := &DesignBuilder{spec: compiler.DesignSpec{ID: id}, builder: b}
	b.designs = append(b.designs, db)
	b.index[id] = db
	return db
}

// Manifest returns the declarative form of the builder.
func (b *Builder) Manifest() *compiler.Manifest {
	m := &compiler.Manifest{Document: b.docID}
	for _, pb := range b.parts {
		m.Parts = append(m.Parts, pb.spec)
	}
	for _, db := range b.designs {
		spec := db.spec
		spec.Assemble = append([]string(nil), db.spec.Assemble...)
		m.Designs = append(m.Designs, spec)
	}
	return m
}

// Build materializes the declared parts and designs into a document.
// Designs are left pending; compile them through the engine.
func (b *Builder) Build(ns identity.Namespace, opts ...compiler.Option) (*document.Document, error) {
	for id, v := range b.index {
		if db, ok := v.(*DesignBuilder); ok && (len(db.spec.Assemble) > 0) == (db.spec.Insert != nil) {
			return nil, fmt.Errorf("design %s must declare exactly one of Assemble or Insert", id)
		}
	}
	doc, err := compiler.New(opts...).Build(b.Manifest(), ns)
	if err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	return doc, nil
}

// Library exposes the declared parts as an in-memory parts library.
func (b *Builder) Library() (*memory.Library, error) {
	parts := make([]ports.Part, 0, len(b.parts))
	for _, pb := range b.parts {
		encoding, err := compiler.ResolveEncoding(pb.spec.Encoding)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", pb.spec.ID, err)
		}
		roles := make([]string, 0, len(pb.spec.Roles))
		for _, r := range pb.spec.Roles {
			roles = append(roles, domain.ResolveRole(r))
		}
		parts = append(parts, ports.Part{
			ID:          pb.spec.ID,
			Name:        pb.spec.Name,
			Description: pb.spec.Description,
			Roles:       roles,
			Elements:    pb.spec.Sequence,
			Encoding:    encoding,
		})
	}
	return memory.NewLibrary(parts...)
}
