package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/strand/pkg/adapters/sqlite"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DocumentStore = (*sqlite.Store)(nil)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "strand.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunDocumentStoreContract(t, store)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunDocumentStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "strand.db")
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	doc := document.New("plasmid", identity.MustNew("https://example.com", ""))
	_, err = doc.CreateComponentDefinition("backbone")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "plasmid", doc.Export()))
	require.NoError(t, store.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	ids, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"plasmid"}, ids)

	snap, err := reopened.Load(ctx, "plasmid")
	require.NoError(t, err)
	require.Len(t, snap.Designs, 1)
	assert.Equal(t, "backbone", snap.Designs[0].DisplayID)
}
