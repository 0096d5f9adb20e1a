package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/snapshot"
)

// RunWorkspaceStoreContract is a reusable test suite that verifies an
// adapter complies with ports.WorkspaceStore.
func RunWorkspaceStoreContract(t *testing.T, store ports.WorkspaceStore) {
	t.Helper()
	ctx := context.Background()

	snapA := snapshot.Snapshot(`{"nodes":[{"id":"a","type":"Sequence","category":"Control"}]}`)
	snapB := snapshot.Snapshot(`{"nodes":[{"id":"b","type":"Fallback","category":"Control"}]}`)

	t.Run("SaveAndLoad", func(t *testing.T) {
		if err := store.Save(ctx, "ws-1", snapA); err != nil {
			t.Fatalf("unexpected error saving: %v", err)
		}
		got, err := store.Load(ctx, "ws-1")
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		if !got.Equal(snapA) {
			t.Errorf("snapshot mismatch. got %q, want %q", got, snapA)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := store.Save(ctx, "ws-1", snapB); err != nil {
			t.Fatalf("unexpected error overwriting: %v", err)
		}
		got, err := store.Load(ctx, "ws-1")
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		if !got.Equal(snapB) {
			t.Errorf("overwrite not visible. got %q, want %q", got, snapB)
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-workspace")
		if !errors.Is(err, domain.ErrWorkspaceNotFound) {
			t.Errorf("expected ErrWorkspaceNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := store.Save(ctx, "ws-2", snapA); err != nil {
			t.Fatalf("unexpected error saving: %v", err)
		}
		names, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for _, want := range []string{"ws-1", "ws-2"} {
			if !lookup[want] {
				t.Errorf("workspace %s missing from list %v", want, names)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "ws-1"); err != nil {
			t.Fatalf("unexpected error deleting: %v", err)
		}
		_, err := store.Load(ctx, "ws-1")
		if !errors.Is(err, domain.ErrWorkspaceNotFound) {
			t.Errorf("expected ErrWorkspaceNotFound after delete, got %v", err)
		}
	})
}
