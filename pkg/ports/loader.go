package ports

import "context"

// Part is a reusable leaf design with its elements, as held by a library.
type Part struct {
	ID          string
	Name        string
	Description string
	Roles       []string
	Elements    string
	Encoding    string
}

// PartsLibrary defines where reusable parts are fetched from.
// This allows the storage layer (Loam, Memory) to be decoupled.
type PartsLibrary interface {
	// GetPart retrieves a part by its ID.
	// Returns domain.ErrNotFound if the library has no such part.
	GetPart(ctx context.Context, id string) (*Part, error)

	// ListParts returns the IDs of all parts in the library.
	ListParts(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for libraries that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying library changes.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
