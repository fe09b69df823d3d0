// Package document holds the ComponentDefinition and Sequence collections of a
// design document. It is the identity arena the compiler walks: designs refer
// to each other by identity and are resolved through the Document.
package document

import (
	"fmt"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
)

// Document is an in-memory collection of designs and sequences.
// It is not safe for concurrent use; see pkg/session for serialized access.
type Document struct {
	ID        string
	namespace identity.Namespace

	designs       map[string]*domain.ComponentDefinition
	designOrder   []string
	sequences     map[string]*domain.Sequence
	sequenceOrder []string
}

// New creates an empty document using the given namespace to mint identities.
func New(id string, ns identity.Namespace) *Document {
	return &Document{
		ID:        id,
		namespace: ns,
		designs:   make(map[string]*domain.ComponentDefinition),
		sequences: make(map[string]*domain.Sequence),
	}
}

// Namespace returns the identity configuration of the document.
func (d *Document) Namespace() identity.Namespace {
	return d.namespace
}

// Resolve maps a reference (full identity or display id) to a design identity.
func (d *Document) Resolve(ref string) (string, error) {
	if _, ok := d.designs[ref]; ok {
		return ref, nil
	}
	if id, err := d.namespace.Resolve(ref); err == nil {
		if _, ok := d.designs[id]; ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("design %s: %w", ref, domain.ErrNotFound)
}

// CreateComponentDefinition mints an identity for displayID and registers an empty design.
func (d *Document) CreateComponentDefinition(displayID string) (*domain.ComponentDefinition, error) {
	id, err := d.namespace.Resolve(displayID)
	if err != nil {
		return nil, err
	}
	cd := domain.NewComponentDefinition(id, displayID)
	if err := d.AddComponentDefinitions(domain.One(cd)); err != nil {
		return nil, err
	}
	return cd, nil
}

// AddComponentDefinitions registers one or many designs. Either all are added or none.
func (d *Document) AddComponentDefinitions(defs domain.OneOrMany[*domain.ComponentDefinition]) error {
	seen := make(map[string]bool, defs.Len())
	for _, cd := range defs.Items() {
		if cd == nil || cd.Identity == "" {
			return fmt.Errorf("design missing identity")
		}
		if _, exists := d.designs[cd.Identity]; exists || seen[cd.Identity] {
			return &domain.IdentityConflictError{Identity: cd.Identity}
		}
		seen[cd.Identity] = true
	}
	for _, cd := range defs.Items() {
		if cd.Status == "" {
			cd.Status = domain.StatusEmpty
		}
		d.designs[cd.Identity] = cd
		d.designOrder = append(d.designOrder, cd.Identity)
	}
	return nil
}

// ComponentDefinition returns the design with the given identity.
func (d *Document) ComponentDefinition(id string) (*domain.ComponentDefinition, error) {
	cd, ok := d.designs[id]
	if !ok {
		return nil, fmt.Errorf("design %s: %w", id, domain.ErrNotFound)
	}
	return cd, nil
}

// RemoveComponentDefinition deletes a design and the sequence it owns.
func (d *Document) RemoveComponentDefinition(id string) error {
	cd, ok := d.designs[id]
	if !ok {
		return fmt.Errorf("design %s: %w", id, domain.ErrNotFound)
	}
	if cd.Sequence != "" {
		d.removeSequence(cd.Sequence)
	}
	delete(d.designs, id)
	d.designOrder = remove(d.designOrder, id)
	return nil
}

// ComponentDefinitions returns all designs in registration order.
func (d *Document) ComponentDefinitions() []*domain.ComponentDefinition {
	out := make([]*domain.ComponentDefinition, 0, len(d.designOrder))
	for _, id := range d.designOrder {
		out = append(out, d.designs[id])
	}
	return out
}

// CreateSequence mints an identity for displayID and registers an unowned DNA sequence.
func (d *Document) CreateSequence(displayID, elements string) (*domain.Sequence, error) {
	id, err := d.namespace.Resolve(displayID)
	if err != nil {
		return nil, err
	}
	seq := domain.NewSequence(id, displayID, elements)
	if err := d.AddSequences(domain.One(seq)); err != nil {
		return nil, err
	}
	return seq, nil
}

// AddSequences registers one or many sequences. Either all are added or none.
func (d *Document) AddSequences(seqs domain.OneOrMany[*domain.Sequence]) error {
	seen := make(map[string]bool, seqs.Len())
	for _, seq := range seqs.Items() {
		if seq == nil || seq.Identity == "" {
			return fmt.Errorf("sequence missing identity")
		}
		if _, exists := d.sequences[seq.Identity]; exists || seen[seq.Identity] {
			return &domain.IdentityConflictError{Identity: seq.Identity}
		}
		if err := seq.Validate(); err != nil {
			return err
		}
		seen[seq.Identity] = true
	}
	for _, seq := range seqs.Items() {
		if seq.Encoding == "" {
			seq.Encoding = domain.EncodingIUPACDNA
		}
		d.sequences[seq.Identity] = seq
		d.sequenceOrder = append(d.sequenceOrder, seq.Identity)
	}
	return nil
}

// Sequence returns the sequence with the given identity.
func (d *Document) Sequence(id string) (*domain.Sequence, error) {
	seq, ok := d.sequences[id]
	if !ok {
		return nil, fmt.Errorf("sequence %s: %w", id, domain.ErrNotFound)
	}
	return seq, nil
}

// RemoveSequence deletes a sequence and detaches it from its owner.
// Detaching never reverts a compiled design to an earlier state.
func (d *Document) RemoveSequence(id string) error {
	if _, ok := d.sequences[id]; !ok {
		return fmt.Errorf("sequence %s: %w", id, domain.ErrNotFound)
	}
	d.removeSequence(id)
	return nil
}

func (d *Document) removeSequence(id string) {
	if seq, ok := d.sequences[id]; ok && seq.Owner != "" {
		if owner, ok := d.designs[seq.Owner]; ok && owner.Sequence == id {
			owner.Sequence = ""
		}
	}
	delete(d.sequences, id)
	d.sequenceOrder = remove(d.sequenceOrder, id)
}

// Sequences returns all sequences in registration order.
func (d *Document) Sequences() []*domain.Sequence {
	out := make([]*domain.Sequence, 0, len(d.sequenceOrder))
	for _, id := range d.sequenceOrder {
		out = append(out, d.sequences[id])
	}
	return out
}

// SetSequence gives design the (unowned) sequence seqID. A design owns at most
// one sequence; a populated sequence turns an empty design into a compiled leaf.
func (d *Document) SetSequence(designID, seqID string) error {
	cd, err := d.ComponentDefinition(designID)
	if err != nil {
		return err
	}
	seq, err := d.Sequence(seqID)
	if err != nil {
		return err
	}
	if cd.Sequence != "" {
		return fmt.Errorf("design %s: %w", designID, domain.ErrSequenceOwned)
	}
	if seq.Owner != "" && seq.Owner != designID {
		return fmt.Errorf("sequence %s is owned by %s", seqID, seq.Owner)
	}
	cd.Sequence = seq.Identity
	seq.Owner = cd.Identity
	if seq.Resolved() && cd.Status == domain.StatusEmpty {
		cd.Status = domain.StatusCompiled
	}
	return nil
}

// AttachSequence creates a sequence named displayID and sets it on the design.
func (d *Document) AttachSequence(designID, displayID, elements string) (*domain.Sequence, error) {
	cd, err := d.ComponentDefinition(designID)
	if err != nil {
		return nil, err
	}
	if cd.Sequence != "" {
		return nil, fmt.Errorf("design %s: %w", designID, domain.ErrSequenceOwned)
	}
	seq, err := d.CreateSequence(displayID, elements)
	if err != nil {
		return nil, err
	}
	if err := d.SetSequence(designID, seq.Identity); err != nil {
		d.removeSequence(seq.Identity)
		return nil, err
	}
	return seq, nil
}

// SequenceOf returns the sequence owned by the design, or nil when it owns none.
func (d *Document) SequenceOf(designID string) *domain.Sequence {
	cd, ok := d.designs[designID]
	if !ok || cd.Sequence == "" {
		return nil
	}
	return d.sequences[cd.Sequence]
}

// Elements returns the finalized elements of a design, if any.
func (d *Document) Elements(designID string) (string, bool) {
	seq := d.SequenceOf(designID)
	if !seq.Resolved() {
		return "", false
	}
	return seq.Elements, true
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
