package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/snapshot"
)

// WorkspaceStore defines the interface for persisting workspace snapshots.
// This backs autosave and crash recovery: the session writes its current
// snapshot after every accepted edit.
type WorkspaceStore interface {
	// Save persists the snapshot for a given workspace name.
	Save(ctx context.Context, workspace string, snap snapshot.Snapshot) error

	// Load retrieves the snapshot for a given workspace name.
	// Returns domain.ErrWorkspaceNotFound if the workspace does not exist.
	Load(ctx context.Context, workspace string) (snapshot.Snapshot, error)

	// Delete removes the snapshot for a given workspace name.
	Delete(ctx context.Context, workspace string) error

	// List returns the names of all stored workspaces.
	List(ctx context.Context) ([]string, error)
}
