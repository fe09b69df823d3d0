package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/strand/internal/compiler"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ns = identity.MustNew("https://example.com", "1")

func TestBuilder_Gene(t *testing.T) {
	b := New("demo")
	b.Part("R0010").Promoter().Sequence("ggctgca")
	b.Part("B0032").RBS().Sequence("aattatataaa")
	b.Part("E0040").CDS().Name("GFP").Sequence("atgtaa")
	b.Part("B0012").Terminator().Sequence("attcga")
	b.Design("gene").Assemble("R0010", "B0032", "E0040", "B0012")

	doc, err := b.Build(ns)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.ID)

	gfp, err := doc.ComponentDefinition("https://example.com/E0040/1")
	require.NoError(t, err)
	assert.Equal(t, "GFP", gfp.Name)
	assert.True(t, gfp.HasRole(domain.RoleCDS))

	gene, err := doc.ComponentDefinition("https://example.com/gene/1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendingAssembly, gene.Status)

	require.NoError(t, compiler.New().Compile(context.Background(), doc, gene.Identity))
	elements, ok := doc.Elements(gene.Identity)
	require.True(t, ok)
	assert.Equal(t, "ggctgcaaattatataaaatgtaaattcga", elements)
}

func TestBuilder_Insert(t *testing.T) {
	b := New("ins")
	b.Part("dst").Sequence("atcg")
	b.Part("ins").Sequence("aa")
	b.Design("result").Insert("dst", "ins", 3)

	doc, err := b.Build(ns)
	require.NoError(t, err)

	result, err := doc.Resolve("result")
	require.NoError(t, err)
	require.NoError(t, compiler.New().CompileInsert(context.Background(), doc, result))

	elements, _ := doc.Elements(result)
	assert.Equal(t, "ataacg", elements)
}

func TestBuilder_ReusesDeclarations(t *testing.T) {
	b := New("reuse")
	b.Part("a").Sequence("aa")
	b.Part("a").Promoter()

	m := b.Manifest()
	require.Len(t, m.Parts, 1)
	assert.Equal(t, "aa", m.Parts[0].Sequence)
	assert.Equal(t, []string{"promoter"}, m.Parts[0].Roles)
}

func TestBuilder_RejectsIncompleteDesign(t *testing.T) {
	b := New("bad")
	b.Design("empty")

	_, err := b.Build(ns)
	assert.Error(t, err)
}

func TestBuilder_Library(t *testing.T) {
	b := New("lib")
	b.Part("R0010").Promoter().Sequence("ggctgca")
	b.Part("prot").Encoding("protein").Sequence("mkv")

	lib, err := b.Library()
	require.NoError(t, err)

	part, err := lib.GetPart(context.Background(), "prot")
	require.NoError(t, err)
	assert.Equal(t, domain.EncodingIUPACProtein, part.Encoding)

	ids, err := lib.ListParts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"R0010", "prot"}, ids)
}
