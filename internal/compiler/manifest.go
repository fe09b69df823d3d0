package compiler

import (
	"fmt"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
)

// Build materializes a manifest into a new document. Parts become compiled
// leaves; designs are left pending so the caller decides when to compile.
// The manifest homespace, when set, overrides ns.
func (c *Compiler) Build(m *Manifest, ns identity.Namespace) (*document.Document, error) {
	if m.Homespace != "" {
		var err error
		if ns, err = identity.New(m.Homespace, m.Version); err != nil {
			return nil, err
		}
	}
	docID := m.Document
	if docID == "" {
		docID = "default"
	}
	doc := document.New(docID, ns)

	for _, part := range m.Parts {
		cd, err := doc.CreateComponentDefinition(part.ID)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part.ID, err)
		}
		describe(cd, part.Name, part.Description, part.Roles)
		if part.Sequence == "" {
			continue
		}
		encoding, err := ResolveEncoding(part.Encoding)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part.ID, err)
		}
		seqID, err := ns.Resolve(part.ID + "_seq")
		if err != nil {
			return nil, err
		}
		seq := domain.NewSequence(seqID, part.ID+"_seq", part.Sequence)
		seq.Encoding = encoding
		if err := doc.AddSequences(domain.One(seq)); err != nil {
			return nil, fmt.Errorf("part %s: %w", part.ID, err)
		}
		if err := doc.SetSequence(cd.Identity, seq.Identity); err != nil {
			return nil, fmt.Errorf("part %s: %w", part.ID, err)
		}
	}

	// Assemblies are registered first so insertions may target them.
	for _, d := range m.Designs {
		if d.Insert != nil {
			continue
		}
		cd, err := doc.CreateComponentDefinition(d.ID)
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", d.ID, err)
		}
		cd.Roles = []string{domain.RoleEngineeredRegion}
		describe(cd, d.Name, d.Description, d.Roles)
	}
	if err := c.buildInsertions(doc, m.Designs); err != nil {
		return nil, err
	}
	for _, d := range m.Designs {
		if d.Insert != nil {
			continue
		}
		id, err := doc.Resolve(d.ID)
		if err != nil {
			return nil, err
		}
		if err := c.AssemblePrimaryStructure(doc, id, domain.Many(d.Assemble...)); err != nil {
			return nil, fmt.Errorf("design %s: %w", d.ID, err)
		}
	}

	c.logger.Debug("manifest built", "document", doc.ID, "parts", len(m.Parts), "designs", len(m.Designs))
	return doc, nil
}

// buildInsertions records the insertion designs in dependency order, so an
// insertion may target another one declared further down the manifest.
// References that never resolve fail with the error of the first one left.
func (c *Compiler) buildInsertions(doc *document.Document, designs []DesignSpec) error {
	var pending []DesignSpec
	for _, d := range designs {
		if d.Insert != nil {
			pending = append(pending, d)
		}
	}
	known := func(ref string) bool {
		_, err := doc.Resolve(ref)
		return err == nil
	}

	for len(pending) > 0 {
		var deferred []DesignSpec
		for _, d := range pending {
			if !known(d.Insert.Into) || !known(d.Insert.Part) {
				deferred = append(deferred, d)
				continue
			}
			if err := c.buildInsertion(doc, d); err != nil {
				return err
			}
		}
		if len(deferred) == len(pending) {
			// Unknown reference, or insertions that target each other.
			return c.buildInsertion(doc, deferred[0])
		}
		pending = deferred
	}
	return nil
}

func (c *Compiler) buildInsertion(doc *document.Document, d DesignSpec) error {
	cd, err := c.Insert(doc, d.Insert.Into, d.Insert.Part, d.Insert.Position, d.ID)
	if err != nil {
		return fmt.Errorf("design %s: %w", d.ID, err)
	}
	describe(cd, d.Name, d.Description, d.Roles)
	return nil
}

func describe(cd *domain.ComponentDefinition, name, description string, roles []string) {
	cd.Name = name
	cd.Description = description
	if len(roles) == 0 {
		return
	}
	cd.Roles = cd.Roles[:0]
	for _, r := range roles {
		cd.Roles = append(cd.Roles, domain.ResolveRole(r))
	}
}
