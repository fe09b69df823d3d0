package loam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/ports"
)

// Library adapts a Loam repository to the ports.PartsLibrary interface.
type Library struct {
	Repo *loam.TypedRepository[PartMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[PartMetadata]) *Library {
	return &Library{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string) (*Library, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps numeric metadata consistent across formats;
	// read-only avoids Loam's dev-mode sandbox since parts are never written here.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[PartMetadata](repo)), nil
}

// GetPart retrieves a part by ID. Loam resolves "R0010" to R0010.md and friends.
func (l *Library) GetPart(ctx context.Context, id string) (*ports.Part, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if l.missing(ctx, id, err) {
			return nil, fmt.Errorf("part %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	meta := doc.Data
	partID := meta.ID
	if partID == "" {
		partID = doc.ID
	}

	elements := meta.Sequence
	if elements == "" {
		elements = parseElements(doc.Content)
	}

	encoding := meta.Encoding
	switch strings.ToLower(encoding) {
	case "", "dna":
		encoding = domain.EncodingIUPACDNA
	case "rna":
		encoding = domain.EncodingIUPACRNA
	case "protein":
		encoding = domain.EncodingIUPACProtein
	}

	roles := make([]string, 0, len(meta.Roles)+1)
	if meta.Role != "" {
		roles = append(roles, domain.ResolveRole(meta.Role))
	}
	for _, r := range meta.Roles {
		roles = append(roles, domain.ResolveRole(r))
	}

	return &ports.Part{
		ID:          trimExtension(partID),
		Name:        meta.Name,
		Description: meta.Description,
		Roles:       roles,
		Elements:    elements,
		Encoding:    encoding,
	}, nil
}

// missing reports whether a failed lookup means the part does not exist.
func (l *Library) missing(ctx context.Context, id string, err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	ids, listErr := l.ListParts(ctx)
	return listErr == nil && !slices.Contains(ids, trimExtension(id))
}

// ListParts lists all parts in the repository.
func (l *Library) ListParts(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Watch implements ports.Watchable.
func (l *Library) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough to trigger a reload
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

// parseElements extracts sequence elements from a document body.
// FASTA header (">") and comment (";") lines are skipped.
func parseElements(content string) string {
	var b strings.Builder
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ">") || strings.HasPrefix(line, ";") {
			continue
		}
		for _, r := range line {
			if r != ' ' && r != '\t' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
