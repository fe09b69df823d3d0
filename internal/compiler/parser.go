package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Manifest is the declarative description of a design document.
// It uses "mapstructure" tags so the same shape decodes from YAML, JSON and
// frontmatter metadata.
type Manifest struct {
	Document  string       `json:"document" mapstructure:"document"`
	Homespace string       `json:"homespace" mapstructure:"homespace"`
	Version   string       `json:"version" mapstructure:"version"`
	Parts     []PartSpec   `json:"parts" mapstructure:"parts"`
	Designs   []DesignSpec `json:"designs" mapstructure:"designs"`
}

// PartSpec declares a leaf design with literal elements.
type PartSpec struct {
	ID          string   `json:"id" mapstructure:"id"`
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description" mapstructure:"description"`
	Roles       []string `json:"roles" mapstructure:"roles"`
	Sequence    string   `json:"sequence" mapstructure:"sequence"`
	Encoding    string   `json:"encoding" mapstructure:"encoding"`
}

// DesignSpec declares a composite design, built either by assembly or by
// insertion. Exactly one of Assemble and Insert must be set.
type DesignSpec struct {
	ID          string      `json:"id" mapstructure:"id"`
	Name        string      `json:"name" mapstructure:"name"`
	Description string      `json:"description" mapstructure:"description"`
	Roles       []string    `json:"roles" mapstructure:"roles"`
	Assemble    []string    `json:"assemble" mapstructure:"assemble"`
	Insert      *InsertSpec `json:"insert" mapstructure:"insert"`
}

// InsertSpec declares a pending insertion.
type InsertSpec struct {
	Into     string `json:"into" mapstructure:"into"`
	Part     string `json:"part" mapstructure:"part"`
	Position int    `json:"at" mapstructure:"at"`
}

// Parser is responsible for converting raw bytes into a Manifest.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes YAML or JSON content into a Manifest.
func (p *Parser) Parse(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("manifest is empty")
	}
	m, err := p.Decode(raw)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Decode maps an already parsed document onto a Manifest. Unknown keys are rejected.
func (p *Parser) Decode(raw map[string]any) (*Manifest, error) {
	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &m,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool)
	check := func(id string) error {
		if id == "" {
			return fmt.Errorf("manifest entry missing id")
		}
		if seen[id] {
			return fmt.Errorf("manifest declares %s twice", id)
		}
		seen[id] = true
		return nil
	}
	for _, part := range m.Parts {
		if err := check(part.ID); err != nil {
			return err
		}
		if _, err := ResolveEncoding(part.Encoding); err != nil {
			return fmt.Errorf("part %s: %w", part.ID, err)
		}
	}
	for _, d := range m.Designs {
		if err := check(d.ID); err != nil {
			return err
		}
		if (len(d.Assemble) > 0) == (d.Insert != nil) {
			return fmt.Errorf("design %s must declare exactly one of assemble or insert", d.ID)
		}
	}
	return nil
}

// ResolveEncoding maps short encoding names (dna, rna, protein) to their
// encoding URIs. Empty means DNA; anything else is passed through.
func ResolveEncoding(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "dna":
		return domain.EncodingIUPACDNA, nil
	case "rna":
		return domain.EncodingIUPACRNA, nil
	case "protein":
		return domain.EncodingIUPACProtein, nil
	}
	if strings.Contains(name, "://") {
		return name, nil
	}
	return "", fmt.Errorf("unknown encoding %q", name)
}
