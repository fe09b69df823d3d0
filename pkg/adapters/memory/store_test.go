package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/strand/pkg/adapters/memory"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDocumentStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	doc := document.New("iso", identity.MustNew("https://example.com", ""))
	cd, err := doc.CreateComponentDefinition("a")
	require.NoError(t, err)
	cd.Roles = []string{"promoter"}

	snap := doc.Export()
	require.NoError(t, store.Save(ctx, "iso", snap))
	snap.Designs[0].Roles[0] = "mutated"

	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "promoter", loaded.Designs[0].Roles[0])

	loaded.Designs[0].Roles[0] = "mutated"
	again, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "promoter", again.Designs[0].Roles[0])
}
