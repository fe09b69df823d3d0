package domain

import "iter"

// Status is the explicit compilation state of a design.
type Status string

const (
	StatusEmpty            Status = "empty"             // No pending state, no compiled sequence
	StatusPendingInsertion Status = "pending_insertion" // Holds an InsertionEdit
	StatusPendingAssembly  Status = "pending_assembly"  // Holds an ordered SubComponent list
	StatusCompiled         Status = "compiled"          // Terminal
)

// IsPending reports whether the status can still be compiled.
func (s Status) IsPending() bool {
	return s == StatusPendingInsertion || s == StatusPendingAssembly
}

// ComponentDefinition describes a genetic part or a composite assembly.
// Sub-designs are referenced by identity, never by pointer; the owning
// document acts as the arena.
type ComponentDefinition struct {
	Identity    string   `json:"identity" yaml:"identity"`
	DisplayID   string   `json:"display_id" yaml:"display_id"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Roles       []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	Types       []string `json:"types,omitempty" yaml:"types,omitempty"`

	// Sequence is the identity of the owned Sequence, empty when none.
	Sequence string `json:"sequence,omitempty" yaml:"sequence,omitempty"`

	// Components is the primary structure in assembly order.
	Components  []SubComponent       `json:"components,omitempty" yaml:"components,omitempty"`
	Constraints []SequenceConstraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Annotations []SequenceAnnotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	Insertion *InsertionEdit `json:"insertion,omitempty" yaml:"insertion,omitempty"`
	Status    Status         `json:"status" yaml:"status"`
}

// NewComponentDefinition creates an empty design with the DNA region type.
func NewComponentDefinition(identity, displayID string) *ComponentDefinition {
	return &ComponentDefinition{
		Identity:  identity,
		DisplayID: displayID,
		Types:     []string{TypeDNARegion},
		Status:    StatusEmpty,
	}
}

// FirstComponent returns the most upstream SubComponent.
func (cd *ComponentDefinition) FirstComponent() (SubComponent, bool) {
	if len(cd.Components) == 0 {
		return SubComponent{}, false
	}
	return cd.Components[0], true
}

// LastComponent returns the most downstream SubComponent.
func (cd *ComponentDefinition) LastComponent() (SubComponent, bool) {
	if len(cd.Components) == 0 {
		return SubComponent{}, false
	}
	return cd.Components[len(cd.Components)-1], true
}

// PrimaryStructure yields the SubComponents in assembly order.
// The returned sequence is lazy and can be ranged over any number of times.
func (cd *ComponentDefinition) PrimaryStructure() iter.Seq[SubComponent] {
	return func(yield func(SubComponent) bool) {
		for _, sc := range cd.Components {
			if !yield(sc) {
				return
			}
		}
	}
}

// Component looks up a SubComponent by identity.
func (cd *ComponentDefinition) Component(identity string) (SubComponent, bool) {
	for _, sc := range cd.Components {
		if sc.Identity == identity {
			return sc, true
		}
	}
	return SubComponent{}, false
}

// Upstream returns the SubComponent constrained to precede sc, if any.
func (cd *ComponentDefinition) Upstream(sc SubComponent) (SubComponent, bool) {
	for _, c := range cd.Constraints {
		if c.Restriction == RestrictionPrecedes && c.Object == sc.Identity {
			return cd.Component(c.Subject)
		}
	}
	return SubComponent{}, false
}

// Downstream returns the SubComponent that sc is constrained to precede, if any.
func (cd *ComponentDefinition) Downstream(sc SubComponent) (SubComponent, bool) {
	for _, c := range cd.Constraints {
		if c.Restriction == RestrictionPrecedes && c.Subject == sc.Identity {
			return cd.Component(c.Object)
		}
	}
	return SubComponent{}, false
}

// Annotation returns the annotation resolved for sc after compilation.
func (cd *ComponentDefinition) Annotation(sc SubComponent) (SequenceAnnotation, bool) {
	for _, a := range cd.Annotations {
		if a.Identity == sc.Annotation {
			return a, true
		}
	}
	return SequenceAnnotation{}, false
}

// HasRole reports whether the design carries the given role.
func (cd *ComponentDefinition) HasRole(role string) bool {
	for _, r := range cd.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SubComponent is an ordered instance of a design within a parent design.
type SubComponent struct {
	Identity  string `json:"identity" yaml:"identity"`
	DisplayID string `json:"display_id" yaml:"display_id"`

	// Definition is the identity of the referenced ComponentDefinition.
	Definition string `json:"definition" yaml:"definition"`

	// Index is the zero-based position in the parent's assembly order.
	Index int `json:"index" yaml:"index"`

	// Annotation is the identity of the resolved SequenceAnnotation (post-compile).
	Annotation string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// SequenceAnnotation locates a SubComponent's contribution in its parent's
// compiled sequence using 1-based inclusive coordinates.
type SequenceAnnotation struct {
	Identity  string `json:"identity" yaml:"identity"`
	DisplayID string `json:"display_id" yaml:"display_id"`
	Component string `json:"component" yaml:"component"`
	Start     int    `json:"start" yaml:"start"`
	End       int    `json:"end" yaml:"end"`
}

// Len returns the number of bases covered by the annotation.
func (a SequenceAnnotation) Len() int {
	return a.End - a.Start + 1
}

// Restriction values for SequenceConstraint.
const (
	RestrictionPrecedes = "http://sbols.org/v2#precedes"
)

// SequenceConstraint orders two SubComponents of the same parent.
type SequenceConstraint struct {
	Identity    string `json:"identity" yaml:"identity"`
	DisplayID   string `json:"display_id" yaml:"display_id"`
	Subject     string `json:"subject" yaml:"subject"`
	Object      string `json:"object" yaml:"object"`
	Restriction string `json:"restriction" yaml:"restriction"`
}

// InsertionEdit records a pending insertion of one design into another.
// Position is 1-based ("insert before base p") and deliberately unrestricted;
// range handling happens at compile time.
type InsertionEdit struct {
	Parent   string `json:"parent" yaml:"parent"`
	Inserted string `json:"inserted" yaml:"inserted"`
	Position int    `json:"position" yaml:"position"`
	Target   string `json:"target" yaml:"target"`
}
