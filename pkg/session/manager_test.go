package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/strand/pkg/adapters/memory"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/aretw0/strand/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var ns = identity.MustNew("https://example.com", "")

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Save(ctx context.Context, docID string, snap *document.Snapshot) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	return s.Store.Save(ctx, docID, snap)
}

func (s *SlowStore) Load(ctx context.Context, docID string) (*document.Snapshot, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	return s.Store.Load(ctx, docID)
}

func TestManager_UpdateSerializesWriters(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := session.NewManager(&SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"
	require.NoError(t, manager.Save(ctx, document.New(id, ns)))

	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := manager.Update(ctx, id, func(_ context.Context, doc *document.Document) error {
				_, err := doc.CreateComponentDefinition(fmt.Sprintf("part_%d", n))
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Read-modify-write without locking would lose designs
	doc, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, doc.ComponentDefinitions(), writers)
}

func TestManager_UpdateFailureIsNotPersisted(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, manager.Save(ctx, document.New("doc", ns)))

	err := manager.Update(ctx, "doc", func(_ context.Context, doc *document.Document) error {
		_, err := doc.CreateComponentDefinition("kept")
		return err
	})
	require.NoError(t, err)

	boom := errors.New("compile failed")
	err = manager.Update(ctx, "doc", func(_ context.Context, doc *document.Document) error {
		_, _ = doc.CreateComponentDefinition("discarded")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := manager.Load(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, doc.ComponentDefinitions(), 1)
	assert.Equal(t, "kept", doc.ComponentDefinitions()[0].DisplayID)
}

func TestManager_UpdateMissing(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	called := false
	err := manager.Update(ctx, "ghost", func(context.Context, *document.Document) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.False(t, called)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "a missing document is not created")
}

func TestManager_LoadMissing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	_, err := manager.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

// recordingLocker counts lock usage and can fail releases.
type recordingLocker struct {
	mu         sync.Mutex
	locks      int
	unlocks    int
	ttl        time.Duration
	failUnlock bool
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks++
	l.ttl = ttl
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		if l.failUnlock {
			return errors.New("lease lost")
		}
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{failUnlock: true}
	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	doc := document.New("plasmid", ns)
	require.NoError(t, manager.Save(ctx, doc))
	require.NoError(t, manager.Delete(ctx, "plasmid"))

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks, "a failed release is logged, not returned")
	assert.Equal(t, 5*time.Second, locker.ttl)
}
