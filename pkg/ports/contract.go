package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractSnapshot builds a small document with one compiled assembly.
func contractSnapshot(t *testing.T, docID string) *document.Snapshot {
	t.Helper()
	doc := document.New(docID, identity.MustNew("https://example.com", "1"))

	promoter, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)
	promoter.Roles = []string{domain.RolePromoter}
	_, err = doc.AttachSequence(promoter.Identity, "R0010_seq", "ggctgca")
	require.NoError(t, err)

	gene, err := doc.CreateComponentDefinition("gene")
	require.NoError(t, err)
	gene.Components = []domain.SubComponent{
		{Identity: gene.Identity + "/R0010", DisplayID: "R0010", Definition: promoter.Identity, Annotation: gene.Identity + "/R0010_annotation"},
	}
	gene.Annotations = []domain.SequenceAnnotation{
		{Identity: gene.Identity + "/R0010_annotation", DisplayID: "R0010_annotation", Component: gene.Identity + "/R0010", Start: 1, End: 7},
	}
	_, err = doc.AttachSequence(gene.Identity, "gene_seq", "ggctgca")
	require.NoError(t, err)

	return doc.Export()
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore implementation
// adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-test-doc-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(t, docID)

		err := store.Save(ctx, docID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err, "Load should not return error")
		if diff := cmp.Diff(snap, loaded); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}

		restored, err := document.FromSnapshot(loaded)
		require.NoError(t, err, "loaded snapshot should rebuild a document")
		elements, ok := restored.Elements(snap.Designs[1].Identity)
		assert.True(t, ok)
		assert.Equal(t, "ggctgca", elements)
	})

	t.Run("Overwrite", func(t *testing.T) {
		snap := contractSnapshot(t, docID)
		snap.Designs[0].Name = "pTetR"
		require.NoError(t, store.Save(ctx, docID, snap))

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "pTetR", loaded.Designs[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, docID, contractSnapshot(t, docID))
		require.NoError(t, err)

		err = store.Delete(ctx, docID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := docID + "-1"
		id2 := docID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot(t, id1))
		_ = store.Save(ctx, id2, contractSnapshot(t, id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		docs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, docs, id1)
		assert.Contains(t, docs, id2)
	})
}

// RunPartsLibraryContract verifies that a PartsLibrary serves the expected parts.
// want maps part IDs to their elements.
func RunPartsLibraryContract(t *testing.T, lib PartsLibrary, want map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetPart", func(t *testing.T) {
		for id, elements := range want {
			part, err := lib.GetPart(ctx, id)
			require.NoError(t, err, "part %s", id)
			assert.Equal(t, id, part.ID)
			assert.Equal(t, elements, part.Elements)
		}
	})

	t.Run("GetPart NotFound", func(t *testing.T) {
		_, err := lib.GetPart(ctx, "non-existent-part")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListParts", func(t *testing.T) {
		ids, err := lib.ListParts(ctx)
		require.NoError(t, err)
		for id := range want {
			assert.Contains(t, ids, id)
		}
	})
}
