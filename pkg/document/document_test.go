package document

import (
	"errors"
	"testing"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument() *Document {
	return New("doc", identity.MustNew("https://example.com", "1"))
}

func TestDocument_CreateAndResolve(t *testing.T) {
	doc := newTestDocument()

	cd, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/R0010/1", cd.Identity)
	assert.Equal(t, domain.StatusEmpty, cd.Status)

	id, err := doc.Resolve("R0010")
	require.NoError(t, err)
	assert.Equal(t, cd.Identity, id)

	id, err = doc.Resolve(cd.Identity)
	require.NoError(t, err)
	assert.Equal(t, cd.Identity, id)

	_, err = doc.Resolve("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocument_IdentityConflict(t *testing.T) {
	doc := newTestDocument()

	_, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)

	_, err = doc.CreateComponentDefinition("R0010")
	var conflict *domain.IdentityConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "https://example.com/R0010/1", conflict.Identity)
}

func TestDocument_AddManyIsAtomic(t *testing.T) {
	doc := newTestDocument()
	a := domain.NewComponentDefinition("urn:a", "a")
	b := domain.NewComponentDefinition("urn:b", "b")
	dup := domain.NewComponentDefinition("urn:a", "a")

	err := doc.AddComponentDefinitions(domain.Many(a, b, dup))
	require.Error(t, err)
	assert.Empty(t, doc.ComponentDefinitions(), "no design should be added when one conflicts")

	require.NoError(t, doc.AddComponentDefinitions(domain.Many(a, b)))
	require.NoError(t, doc.AddComponentDefinitions(domain.One(domain.NewComponentDefinition("urn:c", "c"))))
	assert.Len(t, doc.ComponentDefinitions(), 3)
}

func TestDocument_SetSequence(t *testing.T) {
	doc := newTestDocument()
	cd, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)

	seq, err := doc.AttachSequence(cd.Identity, "R0010_seq", "ggctgca")
	require.NoError(t, err)
	assert.Equal(t, cd.Identity, seq.Owner)
	assert.Equal(t, domain.StatusCompiled, cd.Status, "a populated leaf is compiled")

	elements, ok := doc.Elements(cd.Identity)
	assert.True(t, ok)
	assert.Equal(t, "ggctgca", elements)

	// At most one sequence per design
	other, err := doc.CreateSequence("other_seq", "atcg")
	require.NoError(t, err)
	err = doc.SetSequence(cd.Identity, other.Identity)
	assert.ErrorIs(t, err, domain.ErrSequenceOwned)
	assert.Empty(t, other.Owner)
}

func TestDocument_EmptySequenceKeepsStatus(t *testing.T) {
	doc := newTestDocument()
	cd, err := doc.CreateComponentDefinition("gene")
	require.NoError(t, err)

	_, err = doc.AttachSequence(cd.Identity, "BB001", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmpty, cd.Status)

	_, ok := doc.Elements(cd.Identity)
	assert.False(t, ok)
}

func TestDocument_RejectsInvalidAlphabet(t *testing.T) {
	doc := newTestDocument()
	_, err := doc.CreateSequence("bad", "atcgz")
	assert.Error(t, err)
	assert.Empty(t, doc.Sequences())
}

func TestDocument_Remove(t *testing.T) {
	doc := newTestDocument()
	cd, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)
	seq, err := doc.AttachSequence(cd.Identity, "R0010_seq", "ggctgca")
	require.NoError(t, err)

	require.NoError(t, doc.RemoveSequence(seq.Identity))
	assert.Empty(t, cd.Sequence)
	assert.Equal(t, domain.StatusCompiled, cd.Status)

	require.NoError(t, doc.RemoveComponentDefinition(cd.Identity))
	_, err = doc.ComponentDefinition(cd.Identity)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, doc.RemoveComponentDefinition(cd.Identity), domain.ErrNotFound)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	doc := newTestDocument()
	cd, err := doc.CreateComponentDefinition("R0010")
	require.NoError(t, err)
	cd.Roles = []string{domain.RolePromoter}
	_, err = doc.AttachSequence(cd.Identity, "R0010_seq", "ggctgca")
	require.NoError(t, err)

	snap := doc.Export()
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)

	got, err := restored.ComponentDefinition(cd.Identity)
	require.NoError(t, err)
	assert.Equal(t, cd, got)
	assert.NotSame(t, cd, got)

	// Mutating the copy leaves the original untouched
	got.Roles[0] = domain.RoleCDS
	assert.Equal(t, domain.RolePromoter, cd.Roles[0])
}

func TestFromSnapshot_RejectsDanglingSequence(t *testing.T) {
	snap := &Snapshot{
		ID:        "doc",
		Namespace: identity.MustNew("https://example.com", ""),
		Designs: []domain.ComponentDefinition{
			{Identity: "urn:a", DisplayID: "a", Sequence: "urn:missing", Status: domain.StatusCompiled},
		},
	}
	_, err := FromSnapshot(snap)
	assert.Error(t, err)
}
