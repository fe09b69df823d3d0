package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strand/pkg/adapters/redis"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func snapshot(t *testing.T, id string) *document.Snapshot {
	t.Helper()
	doc := document.New(id, identity.MustNew("https://example.com", ""))
	cd, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)
	_, err = doc.AttachSequence(cd.Identity, "R0010_seq", "ggctgca")
	require.NoError(t, err)
	return doc.Export()
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunDocumentStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Now()
	store := redis.NewFromClient(client,
		redis.WithTTL(1*time.Second),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	docID := "doc-ttl"

	require.NoError(t, store.Save(ctx, docID, snapshot(t, docID)))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, docs, docID)

	// Key expiry is driven by miniredis, index pruning by the store clock
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, docID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	docs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	docID := "my-doc"

	require.NoError(t, store.Save(ctx, docID, snapshot(t, docID)))

	assert.True(t, mr.Exists("custom:app:my-doc"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, docID)
}
