package session

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/layout"
	"github.com/aretw0/arbor/pkg/snapshot"
)

// LoadXML decodes persisted XML and adopts it as the current workspace's
// document. Decoding is all-or-nothing: on failure the live document is
// untouched and the typed error carries a message for the shell to
// display. On success the document is relaid out, the canvas rebuilt and
// the new state pushed onto the history.
func (s *Session) LoadXML(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if ws.locked {
		return ErrEditingLocked
	}

	tree, models, err := codec.Decode(text, s.reg)
	if err != nil {
		s.logger.Warn("Load rejected", "workspace", ws.name, "err", err)
		return err
	}

	s.adoptLocked(ws, tree, models, true)
	s.pushLocked(ws)
	return nil
}

// EncodeXML serializes the current document. The save gate is re-asserted
// here; an invalid document yields domain.ErrInvalidDocument and no
// output, so a file write can never be partial.
func (s *Session) EncodeXML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return codec.Encode(s.current.tree, s.current.models, s.reg)
}

// InsertNode creates a node of the named type under a parent. The type is
// resolved against the document model first, then the registry.
func (s *Session) InsertNode(parentID domain.NodeID, typeName string) (domain.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if ws.locked {
		return "", ErrEditingLocked
	}
	model, ok := ws.models[typeName]
	if !ok {
		model, ok = s.reg.Lookup(typeName)
	}
	if !ok {
		return "", fmt.Errorf("%w: unknown node type %q", domain.ErrMalformedDocument, typeName)
	}

	id, err := ws.tree.Insert(parentID, model)
	if err != nil {
		return "", err
	}
	s.pushLocked(ws)
	return id, nil
}

// RemoveNode deletes a node and its whole subtree.
func (s *Session) RemoveNode(id domain.NodeID) error {
	return s.edit(func(ws *workspace) error {
		return ws.tree.Remove(id)
	})
}

// ConnectNodes attaches a detached node under a parent.
func (s *Session) ConnectNodes(parentID, childID domain.NodeID) error {
	return s.edit(func(ws *workspace) error {
		return ws.tree.Connect(parentID, childID)
	})
}

// DisconnectNode detaches a node from its parent.
func (s *Session) DisconnectNode(id domain.NodeID) error {
	return s.edit(func(ws *workspace) error {
		return ws.tree.Disconnect(id)
	})
}

// SetParameter assigns a parameter value on a node.
func (s *Session) SetParameter(id domain.NodeID, label, value string) error {
	return s.edit(func(ws *workspace) error {
		return ws.tree.SetParameter(id, label, value)
	})
}

// edit runs one gated mutation and pushes the result onto the history.
func (s *Session) edit(fn func(*workspace) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if ws.locked {
		return ErrEditingLocked
	}
	if err := fn(ws); err != nil {
		return err
	}
	s.pushLocked(ws)
	return nil
}

// NotifyChange is the structural-change entry point for the canvas shell
// (node added, removed or reconnected by direct manipulation). It is
// ignored while the session itself is mid-mutation.
func (s *Session) NotifyChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiet {
		return
	}
	s.pushLocked(s.current)
}

// Undo steps the current workspace one edit back. An empty history is a
// silent no-op returning false.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if ws.locked {
		return false
	}
	snap, ok := ws.history.Undo()
	if !ok {
		return false
	}
	return s.restoreLocked(ws, snap)
}

// Redo steps the current workspace one undone edit forward.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if ws.locked {
		return false
	}
	snap, ok := ws.history.Redo()
	if !ok {
		return false
	}
	return s.restoreLocked(ws, snap)
}

// TreeReceived adopts a fully-formed document delivered by the
// monitor/replay collaborator. Prior history is meaningless for an
// external tree, so both stacks are cleared; outside editor mode the
// workspace stays locked against structural edits.
func (s *Session) TreeReceived(tree *domain.Tree, models domain.TreeNodesModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if models == nil {
		models = domain.TreeNodesModel{}
	}
	s.adoptLocked(ws, tree, models, true)

	snap, err := snapshot.Capture(ws.tree, ws.models)
	if err != nil {
		s.logger.Error("Snapshot capture failed after feed adoption", "workspace", ws.name, "err", err)
		return
	}
	ws.history.Reset(snap)
	ws.locked = s.mode != ModeEditor
	s.autosaveLocked(ws)
}

// SetOrientation relayouts every open workspace with the new orientation.
// Each workspace whose layout actually changed gets exactly one undoable
// edit pushed onto its history.
func (s *Session) SetOrientation(o layout.Orientation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orientation = o
	for _, ws := range s.workspaces {
		res := layout.Compute(ws.tree, o)
		if layout.Apply(ws.tree, res) {
			s.pushLocked(ws)
		}
	}
	s.refreshCanvasLocked(s.current)
}

// ToggleOrientation flips between horizontal and vertical layout and
// returns the new orientation.
func (s *Session) ToggleOrientation() layout.Orientation {
	s.mu.Lock()
	next := s.orientation.Toggle()
	s.mu.Unlock()

	s.SetOrientation(next)
	return next
}

// AutoArrange recomputes the layout of the current workspace and reports
// whether anything moved.
func (s *Session) AutoArrange() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	res := layout.Compute(ws.tree, s.orientation)
	if !layout.Apply(ws.tree, res) {
		return false
	}
	s.canvas.SetPositions(res.Positions)
	s.pushLocked(ws)
	return true
}

// ClearWorkspace empties the current document as one undoable edit.
func (s *Session) ClearWorkspace() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.current
	if ws.locked {
		return ErrEditingLocked
	}
	s.adoptLocked(ws, domain.NewTree(), ws.models, false)
	s.pushLocked(ws)
	return nil
}

// adoptLocked atomically replaces the live document: clear, rebuild, then
// notify the canvas. Structural-change notifications are suppressed for
// the whole scope so partial intermediate states never reach the history.
func (s *Session) adoptLocked(ws *workspace, tree *domain.Tree, models domain.TreeNodesModel, relayout bool) {
	s.quiet = true
	defer func() { s.quiet = false }()

	s.canvas.Clear()
	ws.tree = tree
	ws.models = models
	if relayout {
		res := layout.Compute(ws.tree, s.orientation)
		layout.Apply(ws.tree, res)
	}
	s.canvas.Rebuild(ws.tree)
	s.canvas.SetPositions(currentPositions(ws.tree))
}

// restoreLocked rebuilds a workspace from a history snapshot. Snapshots
// carry node positions, so no relayout happens here; the document comes
// back exactly as it was.
func (s *Session) restoreLocked(ws *workspace, snap snapshot.Snapshot) bool {
	tree, models, err := snapshot.Restore(snap)
	if err != nil {
		s.logger.Error("Snapshot restore failed", "workspace", ws.name, "err", err)
		return false
	}
	s.adoptLocked(ws, tree, models, false)
	s.autosaveLocked(ws)
	return true
}

// pushLocked captures the live document and records it if it changed.
func (s *Session) pushLocked(ws *workspace) bool {
	snap, err := snapshot.Capture(ws.tree, ws.models)
	if err != nil {
		s.logger.Error("Snapshot capture failed", "workspace", ws.name, "err", err)
		return false
	}
	if !ws.history.PushIfChanged(snap) {
		return false
	}
	s.autosaveLocked(ws)
	return true
}

func (s *Session) autosaveLocked(ws *workspace) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(context.Background(), ws.name, ws.history.Current()); err != nil {
		s.logger.Warn("Autosave failed", "workspace", ws.name, "err", err)
	}
}

func (s *Session) refreshCanvasLocked(ws *workspace) {
	s.quiet = true
	defer func() { s.quiet = false }()

	s.canvas.Clear()
	s.canvas.Rebuild(ws.tree)
	s.canvas.SetPositions(currentPositions(ws.tree))
}

func currentPositions(tree *domain.Tree) map[domain.NodeID]domain.Position {
	out := make(map[domain.NodeID]domain.Position, tree.Len())
	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		out[id] = node.Position
	}
	return out
}
