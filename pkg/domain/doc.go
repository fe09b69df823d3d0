/*
Package domain contains the core domain models of the Strand design compiler.

It defines the entities of a hierarchical genetic design, the compilation state
tag and the error taxonomy. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - ComponentDefinition: a reusable design (a part or a composite assembly).
  - Sequence: the concrete primary structure owned by exactly one design.
  - SubComponent: an ordered instance of one design used within another.
  - SequenceAnnotation: a 1-based inclusive (start, end) locating a SubComponent.
  - InsertionEdit: a pending splice recorded by Insert and consumed by CompileInsert.
  - Status: the explicit compilation state of a design.
*/
package domain
