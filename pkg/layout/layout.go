/*
Package layout computes deterministic node positions for a behavior-tree
document.

The algorithm is a pure function of (tree structure, orientation):
identical input always yields identical output, independent of any prior
positions. Children sit strictly after their parent along the primary axis
(Horizontal: left to right, Vertical: top to bottom); siblings spread
along the secondary axis in stored child order without overlap, with each
parent centered over the span of its children.
*/
package layout

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Orientation selects the primary layout axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns the persisted settings form of the orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "VERTICAL"
	}
	return "HORIZONTAL"
}

// ParseOrientation converts the persisted settings form back.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "HORIZONTAL":
		return Horizontal, nil
	case "VERTICAL":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Spacing between depth levels (primary axis) and between sibling leaves
// (secondary axis).
const (
	LevelSpacing   = 160.0
	SiblingSpacing = 80.0
)

// Result holds the computed position for every node plus the overall
// extent of the arrangement.
type Result struct {
	Positions map[domain.NodeID]domain.Position
	Width     float64
	Height    float64
}

// Compute assigns a position to every node in the document. Multiple
// roots (legal in a transiently-invalid document) are stacked along the
// secondary axis in insertion order.
func Compute(tree *domain.Tree, orientation Orientation) Result {
	depths := make(map[domain.NodeID]float64, tree.Len())
	lanes := make(map[domain.NodeID]float64, tree.Len())

	cursor := 0.0
	for _, rootID := range tree.Roots() {
		arrange(tree, rootID, 0, &cursor, depths, lanes)
	}

	res := Result{Positions: make(map[domain.NodeID]domain.Position, tree.Len())}
	for id, depth := range depths {
		primary := depth * LevelSpacing
		secondary := lanes[id]

		var pos domain.Position
		if orientation == Horizontal {
			pos = domain.Position{X: primary, Y: secondary}
		} else {
			pos = domain.Position{X: secondary, Y: primary}
		}
		res.Positions[id] = pos

		if pos.X > res.Width {
			res.Width = pos.X
		}
		if pos.Y > res.Height {
			res.Height = pos.Y
		}
	}
	return res
}

// arrange walks the subtree post-order: leaves claim the next free lane on
// the secondary axis, and every parent is centered between its first and
// last child.
func arrange(tree *domain.Tree, id domain.NodeID, depth float64, cursor *float64, depths, lanes map[domain.NodeID]float64) {
	depths[id] = depth

	node, ok := tree.Get(id)
	if !ok {
		return
	}
	children := node.Children()
	if len(children) == 0 {
		lanes[id] = *cursor
		*cursor += SiblingSpacing
		return
	}

	for _, child := range children {
		arrange(tree, child, depth+1, cursor, depths, lanes)
	}
	first := lanes[children[0]]
	last := lanes[children[len(children)-1]]
	lanes[id] = (first + last) / 2
}

// Apply writes a computed result back onto the document's nodes and
// reports whether any position actually changed. The orientation toggle
// uses this to push an undoable edit only when a relayout had an effect.
func Apply(tree *domain.Tree, res Result) bool {
	changed := false
	for id, pos := range res.Positions {
		node, ok := tree.Get(id)
		if !ok {
			continue
		}
		if node.Position != pos {
			changed = true
		}
		node.Position = pos
	}
	return changed
}
