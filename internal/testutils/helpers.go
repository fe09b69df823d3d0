package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupPartsRepo creates a temporary parts library directory and initializes a
// Loam repository in it. It fails the test immediately on error.
func SetupPartsRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// SeedFiles writes raw files into dir, bypassing Loam.
func SeedFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

// PartMarkdown renders a part file with frontmatter metadata and the
// elements as the body.
func PartMarkdown(id, elements string, roles ...string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", id)
	if len(roles) > 0 {
		fmt.Fprintf(&b, "roles: [%s]\n", strings.Join(roles, ", "))
	}
	b.WriteString("---\n")
	b.WriteString(elements)
	b.WriteString("\n")
	return b.String()
}
