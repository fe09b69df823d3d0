package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/strand/internal/testutils"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_Contract(t *testing.T) {
	_, repo := testutils.SetupPartsRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{
		ID: "R0010.md",
		Content: `---
id: R0010
role: promoter
---
ggctgca`,
	}))
	require.NoError(t, repo.Save(ctx, core.Document{
		ID: "B0012.md",
		Content: `---
id: B0012
roles: [terminator]
sequence: attcga
---
`,
	}))

	lib := New(loam.NewTypedRepository[PartMetadata](repo))
	ports.RunPartsLibraryContract(t, lib, map[string]string{
		"R0010": "ggctgca",
		"B0012": "attcga",
	})

	part, err := lib.GetPart(ctx, "R0010")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RolePromoter}, part.Roles)
	assert.Equal(t, domain.EncodingIUPACDNA, part.Encoding)
}

func TestLibrary_FastaBody(t *testing.T) {
	tmpDir, repo := testutils.SetupPartsRepo(t)
	testutils.SeedFiles(t, tmpDir, map[string]string{
		"E0040.md": `---
id: E0040
name: GFP
roles: [cds]
---
> BBa_E0040 green fluorescent protein
atgcgtaaag gagaagaact
; trailing note
tttcactgg
`,
	})

	lib := New(loam.NewTypedRepository[PartMetadata](repo))
	part, err := lib.GetPart(context.Background(), "E0040")
	require.NoError(t, err)
	assert.Equal(t, "GFP", part.Name)
	assert.Equal(t, "atgcgtaaaggagaagaacttttcactgg", part.Elements)
	assert.Equal(t, []string{domain.RoleCDS}, part.Roles)
}

func TestLibrary_ListParts_NormalizesIDs(t *testing.T) {
	tmpDir, repo := testutils.SetupPartsRepo(t)
	testutils.SeedFiles(t, tmpDir, map[string]string{
		"R0010.md": "---\nid: R0010.md\n---\nggctgca",
		"B0034.json": `{
  "id": "B0034.json",
  "sequence": "aaagaggagaaa"
}`,
		"implicit.md": "---\nname: implied from filename\n---\natg",
	})

	lib := New(loam.NewTypedRepository[PartMetadata](repo))
	ids, err := lib.ListParts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B0034", "R0010", "implicit"}, ids)
}

func TestLibrary_ListParts_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupPartsRepo(t)
	testutils.SeedFiles(t, tmpDir, map[string]string{
		"foo.md":   "---\nid: foo\n---\natg",
		"foo.json": `{"id": "foo", "sequence": "atg"}`,
	})

	lib := New(loam.NewTypedRepository[PartMetadata](repo))
	_, err := lib.ListParts(context.Background())
	assert.ErrorContains(t, err, "collision detected")
}

func TestParseElements(t *testing.T) {
	assert.Equal(t, "acgt", parseElements(">header\nac gt\n\n"))
	assert.Equal(t, "", parseElements("; only a comment"))
}
