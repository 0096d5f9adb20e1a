package snapshot

// History maintains the undo/redo stacks for one workspace.
//
// The ordering is deliberate: the undo stack always holds states to go
// back to, and current always holds the present. A push stores the
// *previous* current on the undo stack rather than the new state.
type History struct {
	undo    []Snapshot
	redo    []Snapshot
	current Snapshot
}

// NewHistory creates a history whose current state is the given snapshot.
func NewHistory(initial Snapshot) *History {
	return &History{current: initial}
}

// PushIfChanged records a new edit. If the snapshot equals the current
// state (or the previous current already sits on top of the undo stack)
// nothing is pushed, so no-op edits never pollute the history. A genuine
// change clears the redo stack.
func (h *History) PushIfChanged(snap Snapshot) bool {
	if snap.Equal(h.current) {
		return false
	}
	if len(h.undo) == 0 || !h.undo[len(h.undo)-1].Equal(h.current) {
		h.undo = append(h.undo, h.current)
	}
	h.redo = nil
	h.current = snap
	return true
}

// Undo moves one step back. An empty undo stack is a silent no-op and
// returns false; otherwise the restored snapshot is returned for the
// caller to rebuild the live document from.
func (h *History) Undo() (Snapshot, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	h.redo = append(h.redo, h.current)
	h.current = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return h.current, true
}

// Redo is the symmetric counterpart of Undo.
func (h *History) Redo() (Snapshot, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	h.undo = append(h.undo, h.current)
	h.current = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return h.current, true
}

// Reset clears both stacks and adopts the snapshot as the current state.
// Used after adopting an externally supplied tree, where prior history is
// meaningless.
func (h *History) Reset(snap Snapshot) {
	h.undo = nil
	h.redo = nil
	h.current = snap
}

// Current returns the snapshot matching the live document.
func (h *History) Current() Snapshot {
	return h.current
}

// UndoLen returns the undo stack depth, for gating undo affordances.
func (h *History) UndoLen() int {
	return len(h.undo)
}

// RedoLen returns the redo stack depth, for gating redo affordances.
func (h *History) RedoLen() int {
	return len(h.redo)
}
