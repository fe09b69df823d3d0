package document

import (
	"fmt"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
)

// Snapshot is a detached, serializable copy of a Document.
// Stores persist snapshots; the compiler never sees them.
type Snapshot struct {
	ID        string                       `json:"id" yaml:"id"`
	Namespace identity.Namespace           `json:"namespace" yaml:"namespace"`
	Designs   []domain.ComponentDefinition `json:"designs" yaml:"designs"`
	Sequences []domain.Sequence            `json:"sequences" yaml:"sequences"`

	// Sealed holds the encrypted form of the snapshot when it was written
	// through an encrypting store; Designs and Sequences are then empty.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// Export returns a deep copy of the document contents.
func (d *Document) Export() *Snapshot {
	s := &Snapshot{
		ID:        d.ID,
		Namespace: d.namespace,
		Designs:   make([]domain.ComponentDefinition, 0, len(d.designOrder)),
		Sequences: make([]domain.Sequence, 0, len(d.sequenceOrder)),
	}
	for _, cd := range d.ComponentDefinitions() {
		s.Designs = append(s.Designs, *CloneDesign(cd))
	}
	for _, seq := range d.Sequences() {
		s.Sequences = append(s.Sequences, *seq)
	}
	return s
}

// FromSnapshot rebuilds a Document. The snapshot is copied, not retained.
func FromSnapshot(s *Snapshot) (*Document, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	if s.Sealed != "" {
		return nil, fmt.Errorf("snapshot %s is sealed; open it through the encrypting store", s.ID)
	}
	d := New(s.ID, s.Namespace)

	defs := make([]*domain.ComponentDefinition, 0, len(s.Designs))
	for i := range s.Designs {
		defs = append(defs, CloneDesign(&s.Designs[i]))
	}
	if err := d.AddComponentDefinitions(domain.Many(defs...)); err != nil {
		return nil, fmt.Errorf("failed to restore designs: %w", err)
	}

	seqs := make([]*domain.Sequence, 0, len(s.Sequences))
	for i := range s.Sequences {
		seq := s.Sequences[i]
		seqs = append(seqs, &seq)
	}
	if err := d.AddSequences(domain.Many(seqs...)); err != nil {
		return nil, fmt.Errorf("failed to restore sequences: %w", err)
	}

	for _, cd := range defs {
		if cd.Sequence == "" {
			continue
		}
		seq, ok := d.sequences[cd.Sequence]
		if !ok {
			return nil, fmt.Errorf("design %s references missing sequence %s", cd.Identity, cd.Sequence)
		}
		if seq.Owner != cd.Identity {
			return nil, fmt.Errorf("sequence %s is not owned by %s", seq.Identity, cd.Identity)
		}
	}
	return d, nil
}

// CloneDesign returns a deep copy of cd.
func CloneDesign(cd *domain.ComponentDefinition) *domain.ComponentDefinition {
	c := *cd
	c.Roles = append([]string(nil), cd.Roles...)
	c.Types = append([]string(nil), cd.Types...)
	c.Components = append([]domain.SubComponent(nil), cd.Components...)
	c.Constraints = append([]domain.SequenceConstraint(nil), cd.Constraints...)
	c.Annotations = append([]domain.SequenceAnnotation(nil), cd.Annotations...)
	if cd.Insertion != nil {
		edit := *cd.Insertion
		c.Insertion = &edit
	}
	return &c
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		ID:        s.ID,
		Namespace: s.Namespace,
		Designs:   make([]domain.ComponentDefinition, 0, len(s.Designs)),
		Sequences: append([]domain.Sequence(nil), s.Sequences...),
		Sealed:    s.Sealed,
	}
	for i := range s.Designs {
		c.Designs = append(c.Designs, *CloneDesign(&s.Designs[i]))
	}
	return c
}
