package ports

import (
	"context"

	"github.com/aretw0/strand/pkg/document"
)

// DocumentStore defines the interface for persisting design documents.
// Stores exchange detached snapshots, never live documents.
type DocumentStore interface {
	// Save persists the snapshot under the given document ID.
	Save(ctx context.Context, docID string, snap *document.Snapshot) error

	// Load retrieves the snapshot for a given document ID.
	// Returns domain.ErrDocumentNotFound if the document does not exist.
	Load(ctx context.Context, docID string) (*document.Snapshot, error)

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, docID string) error

	// List returns the IDs of all stored documents.
	List(ctx context.Context) ([]string, error)
}
