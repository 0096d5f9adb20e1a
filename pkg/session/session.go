package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/layout"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/snapshot"
)

// ErrEditingLocked is returned when a structural edit is attempted while
// the session is in monitor or replay mode.
var ErrEditingLocked = errors.New("structural editing is locked")

// ErrWorkspaceExists is returned when a workspace name is already taken.
var ErrWorkspaceExists = errors.New("workspace already exists")

// Mode describes how the session is being driven.
type Mode int

const (
	// ModeEditor allows full structural editing.
	ModeEditor Mode = iota
	// ModeMonitor adopts trees from a live feed; editing is locked.
	ModeMonitor
	// ModeReplay steps through recorded trees; editing is locked.
	ModeReplay
)

// String returns the display form of the mode.
func (m Mode) String() string {
	switch m {
	case ModeMonitor:
		return "MONITOR"
	case ModeReplay:
		return "REPLAY"
	default:
		return "EDITOR"
	}
}

// workspace is one open document with its own history.
type workspace struct {
	name    string
	tree    *domain.Tree
	models  domain.TreeNodesModel
	history *snapshot.History
	locked  bool
}

// Session is the single-writer owner of all open documents.
type Session struct {
	mu sync.Mutex

	reg         *registry.Registry
	mode        Mode
	orientation layout.Orientation

	workspaces []*workspace
	byName     map[string]*workspace
	current    *workspace

	canvas ports.Canvas
	store  ports.WorkspaceStore
	logger *slog.Logger

	// quiet suppresses structural-change pushes while the session is
	// itself performing a multi-step mutation (clear-then-rebuild during
	// load, undo, redo or feed adoption).
	quiet bool
}

// Option configures the Session.
type Option func(*Session)

// WithCanvas attaches the rendering shell.
func WithCanvas(c ports.Canvas) Option {
	return func(s *Session) {
		s.canvas = c
	}
}

// WithStore enables workspace autosave through the given store.
func WithStore(store ports.WorkspaceStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithLogger configures a structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMode sets the session mode (default: ModeEditor).
func WithMode(m Mode) Option {
	return func(s *Session) {
		s.mode = m
	}
}

// WithOrientation sets the initial layout orientation.
func WithOrientation(o layout.Orientation) Option {
	return func(s *Session) {
		s.orientation = o
	}
}

// New creates a session with a single empty workspace named "main".
func New(reg *registry.Registry, opts ...Option) (*Session, error) {
	s := &Session{
		reg:    reg,
		byName: make(map[string]*workspace),
		canvas: ports.NopCanvas{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.newWorkspaceLocked("main"); err != nil {
		return nil, err
	}
	if s.mode != ModeEditor {
		s.current.locked = true
	}
	return s, nil
}

// AttachCanvas replaces the rendering shell. Used by adapters that need a
// reference to the session before they can exist themselves.
func (s *Session) AttachCanvas(c ports.Canvas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas = c
}

// Mode returns the session mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Orientation returns the current layout orientation.
func (s *Session) Orientation() layout.Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

// NewWorkspace opens an additional empty workspace and selects it.
// Workspace names are unique within a session.
func (s *Session) NewWorkspace(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.newWorkspaceLocked(name)
	if err != nil {
		return err
	}
	s.current = ws
	return nil
}

func (s *Session) newWorkspaceLocked(name string) (*workspace, error) {
	if name == "" {
		return nil, fmt.Errorf("workspace name cannot be empty")
	}
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, name)
	}

	tree := domain.NewTree()
	snap, err := snapshot.Capture(tree, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workspace: %w", err)
	}

	ws := &workspace{
		name:    name,
		tree:    tree,
		models:  domain.TreeNodesModel{},
		history: snapshot.NewHistory(snap),
	}
	s.workspaces = append(s.workspaces, ws)
	s.byName[name] = ws
	if s.current == nil {
		s.current = ws
	}
	return ws, nil
}

// Select switches the current workspace.
func (s *Session) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrWorkspaceNotFound, name)
	}
	s.current = ws
	s.refreshCanvasLocked(ws)
	return nil
}

// CurrentWorkspace returns the name of the selected workspace.
func (s *Session) CurrentWorkspace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.name
}

// Workspaces returns all workspace names in open order.
func (s *Session) Workspaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		names = append(names, ws.name)
	}
	return names
}

// Document returns the live tree and model catalog of the current
// workspace. Callers may read freely; structural writes must go through
// the session's edit methods so history and validity stay coherent.
//
// The returned tree is not a copy: traversing it while another goroutine
// edits through the session is a race. Readers that share a session with
// concurrent writers should capture a snapshot instead; the monitor
// server is safe because its mode locks structural edits and feed
// adoption swaps in a fresh tree.
func (s *Session) Document() (*domain.Tree, domain.TreeNodesModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.tree, s.current.models
}

// IsValid reports whether the current document has exactly one root.
func (s *Session) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.IsValid(s.current.tree)
}

// CanSave reports whether the current document passes the stricter save
// gate (single Root-category root with exactly one child).
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CanSave(s.current.tree)
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.history.UndoLen() > 0
}

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.history.RedoLen() > 0
}
