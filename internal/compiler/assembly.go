package compiler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
)

// AssemblePrimaryStructure attaches one SubComponent per entry of parts, in
// order, to design id and chains them with precedes constraints. Duplicate
// parts are allowed and get distinct display ids (R0010, R0010_2, ...); a
// suffix already taken by another part moves on to the next free one.
func (c *Compiler) AssemblePrimaryStructure(doc *document.Document, id string, parts domain.Refs) error {
	cd, err := doc.ComponentDefinition(id)
	if err != nil {
		return err
	}
	if parts.Len() == 0 {
		return &domain.AssemblyError{Design: id, Reason: "primary structure is empty"}
	}
	if cd.Status == domain.StatusCompiled || doc.SequenceOf(id).Resolved() {
		return &domain.AssemblyError{Design: id, Reason: "design already has a sequence"}
	}
	if cd.Status != domain.StatusEmpty {
		return &domain.AssemblyError{Design: id, Reason: fmt.Sprintf("design is %s", cd.Status)}
	}

	ns := doc.Namespace()
	used := make(map[string]bool)
	components := make([]domain.SubComponent, 0, parts.Len())
	for i, ref := range parts.Items() {
		partID, err := doc.Resolve(ref)
		if err != nil {
			return &domain.AssemblyError{Design: id, Reason: fmt.Sprintf("unknown part %s", ref)}
		}
		if partID == id {
			return &domain.CycleError{Path: []string{id, id}}
		}
		part, err := doc.ComponentDefinition(partID)
		if err != nil {
			return err
		}

		displayID := freeID(used, part.DisplayID)
		used[displayID+annotationSuffix] = true
		scID, err := ns.Child(cd.Identity, displayID)
		if err != nil {
			return &domain.AssemblyError{Design: id, Reason: err.Error()}
		}
		components = append(components, domain.SubComponent{
			Identity:   scID,
			DisplayID:  displayID,
			Definition: partID,
			Index:      i,
		})
	}

	constraints := make([]domain.SequenceConstraint, 0, len(components)-1)
	for i := 1; i < len(components); i++ {
		displayID := freeID(used, "constraint"+strconv.Itoa(i))
		scID, err := ns.Child(cd.Identity, displayID)
		if err != nil {
			return &domain.AssemblyError{Design: id, Reason: err.Error()}
		}
		constraints = append(constraints, domain.SequenceConstraint{
			Identity:    scID,
			DisplayID:   displayID,
			Subject:     components[i-1].Identity,
			Object:      components[i].Identity,
			Restriction: domain.RestrictionPrecedes,
		})
	}

	cd.Components = components
	cd.Constraints = constraints
	cd.Status = domain.StatusPendingAssembly
	c.logger.Debug("primary structure assembled", "design", id, "components", len(components))
	return nil
}

// freeID returns base, or base_2, base_3, ... when taken, and reserves it.
// Children of one design share a single identity space.
func freeID(used map[string]bool, base string) string {
	id := base
	for n := 2; used[id] || used[id+annotationSuffix]; n++ {
		id = base + "_" + strconv.Itoa(n)
	}
	used[id] = true
	return id
}

// Compile concatenates the sequences of the SubComponents of design id and
// annotates each contribution. Uncompiled sub-designs with pending state are
// compiled first, depth-first. Either every design in the walk is compiled or
// none is.
func (c *Compiler) Compile(ctx context.Context, doc *document.Document, id string) error {
	ev := c.event(id, domain.CompileAssembly)
	c.emitStart(ctx, ev)

	cd, err := doc.ComponentDefinition(id)
	if err != nil {
		return c.emitError(ctx, ev, err)
	}
	if cd.Status == domain.StatusCompiled || doc.SequenceOf(id).Resolved() {
		return c.emitError(ctx, ev, &domain.AssemblyError{Design: id, Reason: "design already has a sequence"})
	}
	switch {
	case cd.Status == domain.StatusPendingInsertion:
		return c.emitError(ctx, ev, &domain.AssemblyError{Design: id, Reason: "design holds a pending insertion"})
	case cd.Status != domain.StatusPendingAssembly || len(cd.Components) == 0:
		return c.emitError(ctx, ev, &domain.AssemblyError{Design: id, Reason: "no primary structure to compile"})
	}

	r := newResolver(doc)
	if _, _, err := r.resolve(id); err != nil {
		return c.emitError(ctx, ev, err)
	}
	return c.finish(ctx, r, ev)
}

// CompileAll compiles every pending design of the document in registration
// order, skipping designs already compiled as part of an earlier walk.
// It stops at the first failure.
func (c *Compiler) CompileAll(ctx context.Context, doc *document.Document) ([]string, error) {
	var compiled []string
	for _, cd := range doc.ComponentDefinitions() {
		if !cd.Status.IsPending() {
			continue
		}
		if err := c.CompileDesign(ctx, doc, cd.Identity); err != nil {
			return compiled, err
		}
		compiled = append(compiled, cd.Identity)
	}
	return compiled, nil
}

// CompileDesign compiles design id whichever kind of composite it is. Unlike
// CompileInsert, a pending insertion may target designs that are still
// pending; they are compiled first, in the same all-or-nothing walk.
func (c *Compiler) CompileDesign(ctx context.Context, doc *document.Document, id string) error {
	cd, err := doc.ComponentDefinition(id)
	if err != nil {
		return err
	}
	if cd.Status == domain.StatusPendingInsertion {
		return c.compileNested(ctx, doc, id)
	}
	return c.Compile(ctx, doc, id)
}

// compileNested compiles a pending insertion whose parent or inserted design
// may itself still be pending.
func (c *Compiler) compileNested(ctx context.Context, doc *document.Document, id string) error {
	ev := c.event(id, domain.CompileInsertion)
	c.emitStart(ctx, ev)
	r := newResolver(doc)
	if _, _, err := r.resolve(id); err != nil {
		return c.emitError(ctx, ev, err)
	}
	return c.finish(ctx, r, ev)
}
