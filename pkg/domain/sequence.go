package domain

import (
	"fmt"
	"strings"
)

// Encoding values for Sequence.
const (
	EncodingIUPACDNA     = "http://www.chem.qmul.ac.uk/iubmb/misc/naseq.html"
	EncodingIUPACRNA     = "http://www.chem.qmul.ac.uk/iubmb/misc/naseq.html#rna"
	EncodingIUPACProtein = "http://www.chem.qmul.ac.uk/iupac/AminoAcid/"
)

var alphabets = map[string]string{
	EncodingIUPACDNA:     "acgtnrykmswbdhv",
	EncodingIUPACRNA:     "acgunrykmswbdhv",
	EncodingIUPACProtein: "acdefghiklmnpqrstvwyxbzuo*",
}

// Sequence is the concrete primary structure of a design.
type Sequence struct {
	Identity  string `json:"identity" yaml:"identity"`
	DisplayID string `json:"display_id" yaml:"display_id"`
	Elements  string `json:"elements" yaml:"elements"`
	Encoding  string `json:"encoding" yaml:"encoding"`

	// Owner is the identity of the ComponentDefinition owning this sequence.
	Owner string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// NewSequence creates a DNA sequence.
func NewSequence(identity, displayID, elements string) *Sequence {
	return &Sequence{
		Identity:  identity,
		DisplayID: displayID,
		Elements:  elements,
		Encoding:  EncodingIUPACDNA,
	}
}

// Resolved reports whether the sequence carries elements.
func (s *Sequence) Resolved() bool {
	return s != nil && s.Elements != ""
}

// Len returns the number of elements.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Elements)
}

// Validate checks elements against the alphabet of the sequence encoding.
// Unknown encodings are accepted as opaque.
func (s *Sequence) Validate() error {
	alphabet, ok := alphabets[s.Encoding]
	if !ok {
		return nil
	}
	for i, r := range strings.ToLower(s.Elements) {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("sequence %s: invalid element %q at position %d", s.Identity, r, i+1)
		}
	}
	return nil
}
