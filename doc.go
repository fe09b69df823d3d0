/*
Package strand is a compiler for hierarchical genetic designs.

A design (ComponentDefinition) is either a leaf part that owns a sequence, or a
composite built from other designs. strand computes, on demand, the concrete
sequence and positional annotations that the structure implies.

# Concept

Two kinds of composite exist:

  - Insertion: a recorded edit that splices one design into another at a
    1-based position. Positions outside the parent are clamped, so a position
    below 1 prepends and a position past the end appends.
  - Assembly: an ordered list of sub-components whose sequences are
    concatenated. Each sub-component receives a contiguous, 1-based inclusive
    annotation of the span it contributes.

Compilation is one-shot: once a design is compiled, it cannot be compiled or
re-assembled again. Compiling an assembly compiles every pending sub-design it
depends on first, and either the whole hierarchy compiles or nothing changes.

# Key Features

  - Explicit state: every design carries a Status (empty, pending_insertion,
    pending_assembly, compiled).
  - Explicit identity: a Namespace (homespace and version) mints every
    identity; there is no global default.
  - Atomic compiles: cycles and missing sequences are reported as typed errors
    without mutating the document.
  - Storage adapters for documents (memory, file, SQLite, Redis) and a Loam
    backed parts library.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/strand"
		"github.com/aretw0/strand/pkg/domain"
		"github.com/aretw0/strand/pkg/identity"
	)

	func main() {
		eng, err := strand.New(strand.WithNamespace(identity.MustNew("https://example.com", "1")))
		if err != nil {
			log.Fatal(err)
		}

		doc := eng.NewDocument("demo")
		promoter, _ := doc.CreateComponentDefinition("promoter")
		doc.AttachSequence(promoter.Identity, "promoter_seq", "ggctgca")
		cds, _ := doc.CreateComponentDefinition("cds")
		doc.AttachSequence(cds.Identity, "cds_seq", "atgtaa")

		gene, _ := doc.CreateComponentDefinition("gene")
		if err := eng.AssemblePrimaryStructure(doc, gene.Identity, domain.Many(promoter.Identity, cds.Identity)); err != nil {
			log.Fatal(err)
		}
		if err := eng.Compile(context.Background(), doc, gene.Identity); err != nil {
			log.Fatal(err)
		}

		elements, _ := doc.Elements(gene.Identity)
		fmt.Println(elements) // ggctgcaatgtaa
	}
*/
package strand
