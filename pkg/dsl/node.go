package dsl

import "github.com/aretw0/strand/internal/compiler"

// PartBuilder provides a fluent API for configuring a leaf part.
type PartBuilder struct {
	spec    compiler.PartSpec
	builder *Builder
}

// Sequence sets the literal elements of the part.
func (p *PartBuilder) Sequence(elements string) *PartBuilder {
	p.spec.Sequence = elements
	return p
}

// Encoding sets the sequence encoding (dna, rna, protein or a URI).
func (p *PartBuilder) Encoding(encoding string) *PartBuilder {
	p.spec.Encoding = encoding
	return p
}

// Name sets the human readable name.
func (p *PartBuilder) Name(name string) *PartBuilder {
	p.spec.Name = name
	return p
}

// Describe sets the description.
func (p *PartBuilder) Describe(description string) *PartBuilder {
	p.spec.Description = description
	return p
}

// Role adds a role, given as an alias ("promoter") or a full ontology term.
func (p *PartBuilder) Role(role string) *PartBuilder {
	p.spec.Roles = append(p.spec.Roles, role)
	return p
}

// Promoter marks the part as a promoter.
func (p *PartBuilder) Promoter() *PartBuilder { return p.Role("promoter") }

// RBS marks the part as a ribosome binding site.
func (p *PartBuilder) RBS() *PartBuilder { return p.Role("rbs") }

// CDS marks the part as a coding sequence.
func (p *PartBuilder) CDS() *PartBuilder { return p.Role("cds") }

// Terminator marks the part as a terminator.
func (p *PartBuilder) Terminator() *PartBuilder { return p.Role("terminator") }

// DesignBuilder provides a fluent API for configuring a composite design.
type DesignBuilder struct {
	spec    compiler.DesignSpec
	builder *Builder
}

// Assemble sets the primary structure, in order. Parts may repeat.
func (d *DesignBuilder) Assemble(parts ...string) *DesignBuilder {
	d.spec.Assemble = append(d.spec.Assemble[:0], parts...)
	return d
}

// Insert declares the design as part inserted into parent before base position.
func (d *DesignBuilder) Insert(parent, part string, position int) *DesignBuilder {
	d.spec.Insert = &compiler.InsertSpec{Into: parent, Part: part, Position: position}
	return d
}

// Name sets the human readable name.
func (d *DesignBuilder) Name(name string) *DesignBuilder {
	d.spec.Name = name
	return d
}

// Role adds a role to the design.
func (d *DesignBuilder) Role(role string) *DesignBuilder {
	d.spec.Roles = append(d.spec.Roles, role)
	return d
}
