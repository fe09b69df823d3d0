package compiler

import (
	"context"
	"fmt"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
)

// Insert records a pending insertion of inserted into parent at position and
// registers the result as a new design named newID. Nothing is spliced and
// position is not range checked until CompileInsert.
func (c *Compiler) Insert(doc *document.Document, parent, inserted string, position int, newID string) (*domain.ComponentDefinition, error) {
	parentID, err := doc.Resolve(parent)
	if err != nil {
		return nil, fmt.Errorf("insert parent: %w", err)
	}
	insertedID, err := doc.Resolve(inserted)
	if err != nil {
		return nil, fmt.Errorf("insert part: %w", err)
	}

	id, err := doc.Namespace().Resolve(newID)
	if err != nil {
		return nil, err
	}
	cd := domain.NewComponentDefinition(id, newID)
	cd.Insertion = &domain.InsertionEdit{
		Parent:   parentID,
		Inserted: insertedID,
		Position: position,
		Target:   id,
	}
	cd.Status = domain.StatusPendingInsertion

	if err := doc.AddComponentDefinitions(domain.One(cd)); err != nil {
		return nil, err
	}
	c.logger.Debug("insertion recorded", "design", id, "parent", parentID, "inserted", insertedID, "position", position)
	return cd, nil
}

// CompileInsert resolves the pending insertion of design id into a new Sequence
// owned by the design. The parent and inserted designs must already own
// populated sequences. On failure the document is left untouched.
func (c *Compiler) CompileInsert(ctx context.Context, doc *document.Document, id string) error {
	ev := c.event(id, domain.CompileInsertion)
	c.emitStart(ctx, ev)

	cd, err := doc.ComponentDefinition(id)
	if err != nil {
		return c.emitError(ctx, ev, err)
	}
	edit := cd.Insertion
	if edit == nil || cd.Status != domain.StatusPendingInsertion {
		return c.emitError(ctx, ev, &domain.InsertionError{Design: id, Reason: "no pending insertion"})
	}
	if cd.Sequence != "" {
		return c.emitError(ctx, ev, &domain.InsertionError{Design: id, Reason: "design already has a sequence"})
	}

	dst := doc.SequenceOf(edit.Parent)
	if !dst.Resolved() {
		return c.emitError(ctx, ev, &domain.InsertionError{
			Design: id,
			Reason: fmt.Sprintf("parent %s has no sequence elements", edit.Parent),
		})
	}
	ins := doc.SequenceOf(edit.Inserted)
	if !ins.Resolved() {
		return c.emitError(ctx, ev, &domain.InsertionError{
			Design: id,
			Reason: fmt.Sprintf("inserted design %s has no sequence elements", edit.Inserted),
		})
	}
	if dst.Encoding != ins.Encoding {
		return c.emitError(ctx, ev, &domain.InsertionError{
			Design: id,
			Reason: fmt.Sprintf("encoding mismatch between %s and %s", edit.Parent, edit.Inserted),
		})
	}

	r := newResolver(doc)
	r.add(&plan{
		design:   cd,
		kind:     domain.CompileInsertion,
		elements: Splice(dst.Elements, ins.Elements, edit.Position),
		encoding: dst.Encoding,
	})
	return c.finish(ctx, r, ev)
}

// ClampPosition clamps a 1-based insertion position into [1, n+1] for a
// destination of length n.
func ClampPosition(p, n int) int {
	return max(1, min(p, n+1))
}

// Splice inserts ins into dst immediately before the 1-based base p.
// p <= 1 prepends and p >= len(dst)+1 appends.
func Splice(dst, ins string, p int) string {
	p = ClampPosition(p, len(dst))
	return dst[:p-1] + ins + dst[p-1:]
}
