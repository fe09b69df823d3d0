package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/ports"
)

// Library implements ports.PartsLibrary using an in-memory map.
type Library struct {
	parts map[string]ports.Part
}

// NewLibrary creates a library from parts keyed by their ID.
func NewLibrary(parts ...ports.Part) (*Library, error) {
	data := make(map[string]ports.Part, len(parts))
	for _, p := range parts {
		if p.ID == "" {
			return nil, fmt.Errorf("part missing ID")
		}
		data[p.ID] = p
	}
	return &Library{parts: data}, nil
}

// NewFromSequences creates a DNA parts library from an ID to elements map.
// This improves DX for tests.
func NewFromSequences(data map[string]string) *Library {
	parts := make(map[string]ports.Part, len(data))
	for id, elements := range data {
		parts[id] = ports.Part{ID: id, Elements: elements, Encoding: domain.EncodingIUPACDNA}
	}
	return &Library{parts: parts}
}

// GetPart retrieves a copy of a part by ID.
func (l *Library) GetPart(ctx context.Context, id string) (*ports.Part, error) {
	p, ok := l.parts[id]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", id, domain.ErrNotFound)
	}
	p.Roles = append([]string(nil), p.Roles...)
	return &p, nil
}

// ListParts returns all available part IDs.
func (l *Library) ListParts(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.parts))
	for k := range l.parts {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
