package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/strand/pkg/adapters/memory"
	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/identity"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	ns := identity.MustNew("https://example.com", "")
	count := 1000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("doc-%d", i)
		_ = mgr.Save(ctx, document.New(id, ns))
		_ = mgr.Delete(ctx, id)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
