/*
Package session orchestrates the Arbor document engine for one editing
session.

A Session owns an ordered set of workspaces (one open document each, with
its own undo/redo history), the node type registry, the layout
orientation and the editor mode. All user-facing actions (load, save,
edit, undo, redo, toggle orientation, clear) enter here; the session
calls back into the canvas shell only after a successful state
transition.

Every method serializes on one mutex: the document has exactly one writer
at a time by construction, which is what makes the snapshot engine's
quiet-restore dance safe without any finer locking.
*/
package session
