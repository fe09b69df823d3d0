package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/strand/pkg/adapters/memory"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/persistence/middleware"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretDoc(t *testing.T, id string) *document.Snapshot {
	t.Helper()
	doc := document.New(id, identity.MustNew("https://example.com", ""))
	cd, err := doc.CreateComponentDefinition("secret_cds")
	require.NoError(t, err)
	_, err = doc.AttachSequence(cd.Identity, "secret_cds_seq", "atgcccgggtaa")
	require.NoError(t, err)
	return doc.Export()
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunDocumentStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "lab", secretDoc(t, "lab")))

	stored, err := underlying.Load(ctx, "lab")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)
	assert.Empty(t, stored.Designs)
	assert.Empty(t, stored.Sequences)
	assert.Equal(t, "lab", stored.ID)
	assert.NotContains(t, stored.Sealed, "atgcccgggtaa")

	_, err = document.FromSnapshot(stored)
	assert.Error(t, err, "a sealed snapshot cannot be opened directly")

	loaded, err := secure.Load(ctx, "lab")
	require.NoError(t, err)
	doc, err := document.FromSnapshot(loaded)
	require.NoError(t, err)
	elements, ok := doc.Elements("https://example.com/secret_cds")
	require.True(t, ok)
	assert.Equal(t, "atgcccgggtaa", elements)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "rotation", secretDoc(t, "rotation")))

	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := newStore.Load(ctx, "rotation")
	require.NoError(t, err, "fallback key must open old documents")

	require.NoError(t, newStore.Save(ctx, "rotation", loaded))
	_, err = oldStore.Load(ctx, "rotation")
	assert.Error(t, err, "documents re-saved with the new key are closed to the old one")
}

func TestEncryptionMiddleware_PlainDocument(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), "plain", secretDoc(t, "plain")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(context.Background(), "plain")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestDecodeKey(t *testing.T) {
	key := generateKey(t)

	got, err := middleware.DecodeKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	got, err = middleware.DecodeKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.DecodeKey(strings.Repeat("ab", 8))
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.DocumentStore) ports.DocumentStore {
			order = append(order, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, order)
}
