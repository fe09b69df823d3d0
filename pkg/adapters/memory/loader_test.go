package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/strand/pkg/adapters/memory"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLibrary_Contract(t *testing.T) {
	data := map[string]string{
		"R0010": "ggctgca",
		"B0012": "attcga",
	}
	ports.RunPartsLibraryContract(t, memory.NewFromSequences(data), data)
}

func TestInMemoryLibrary_Parts(t *testing.T) {
	lib, err := memory.NewLibrary(ports.Part{ID: "E0040", Roles: []string{domain.RoleCDS}, Elements: "atgtaa"})
	require.NoError(t, err)

	part, err := lib.GetPart(context.Background(), "E0040")
	require.NoError(t, err)
	part.Roles[0] = "mutated"

	again, err := lib.GetPart(context.Background(), "E0040")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCDS, again.Roles[0])

	_, err = memory.NewLibrary(ports.Part{Elements: "atg"})
	assert.Error(t, err)
}
