package ports

import "github.com/aretw0/arbor/pkg/domain"

// Canvas is the rendering shell the engine calls back into after a
// successful state transition. Implementations must not call back into
// the session synchronously; the session holds its own lock while
// notifying.
type Canvas interface {
	// Clear drops everything currently on the canvas.
	Clear()

	// Rebuild repopulates the canvas from a freshly adopted document.
	Rebuild(tree *domain.Tree)

	// SetPositions applies a computed layout to the rendered nodes.
	SetPositions(positions map[domain.NodeID]domain.Position)
}

// NopCanvas is a Canvas that does nothing. Used when the engine runs
// headless (CLI, tests).
type NopCanvas struct{}

func (NopCanvas) Clear()                                         {}
func (NopCanvas) Rebuild(*domain.Tree)                           {}
func (NopCanvas) SetPositions(map[domain.NodeID]domain.Position) {}

var _ Canvas = NopCanvas{}
