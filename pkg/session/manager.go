package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/strand/internal/logging"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/ports"
)

const defaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates document access, ensuring a single writer per document.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.DocumentStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease of distributed locks (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Manager with the given persistence store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: defaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(docID) after unlocking.
func (m *Manager) acquire(docID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[docID]
	if !exists {
		entry = &lockEntry{}
		m.locks[docID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[docID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, docID)
	}
}

// Load retrieves a document from the store.
func (m *Manager) Load(ctx context.Context, docID string) (*document.Document, error) {
	var doc *document.Document
	err := m.WithLock(ctx, docID, func(ctx context.Context) error {
		var err error
		doc, err = m.load(ctx, docID)
		return err
	})
	return doc, err
}

func (m *Manager) load(ctx context.Context, docID string) (*document.Document, error) {
	snap, err := m.store.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	doc, err := document.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("document %s is corrupt: %w", docID, err)
	}
	return doc, nil
}

// Update loads the document, runs fn on it and saves the result, all under
// the document lock. Nothing is persisted when fn fails, so a failed
// compilation never leaves a half-compiled document in the store.
func (m *Manager) Update(ctx context.Context, docID string, fn func(context.Context, *document.Document) error) error {
	return m.WithLock(ctx, docID, func(ctx context.Context) error {
		doc, err := m.load(ctx, docID)
		if err != nil {
			return err
		}
		if err := fn(ctx, doc); err != nil {
			return err
		}
		if err := m.store.Save(ctx, docID, doc.Export()); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		return nil
	})
}

// Save persists the document under its own ID.
func (m *Manager) Save(ctx context.Context, doc *document.Document) error {
	return m.WithLock(ctx, doc.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, doc.ID, doc.Export())
	})
}

// Delete removes the document from the store.
func (m *Manager) Delete(ctx context.Context, docID string) error {
	return m.WithLock(ctx, docID, func(ctx context.Context) error {
		return m.store.Delete(ctx, docID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes a function while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, docID string, fn func(context.Context) error) error {
	entry := m.acquire(docID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(docID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, docID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so a canceled caller still frees the lease
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"doc_id", docID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
