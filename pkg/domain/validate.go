package domain

import "fmt"

// IsValid reports whether the document has exactly one root. This is the
// cheap check re-run after every structural mutation, including undo/redo
// and load, to drive the editor's valid/invalid indicator.
func IsValid(t *Tree) bool {
	return len(t.Roots()) == 1
}

// CanSave is the stricter gate used before enabling save and auto-arrange:
// the single root must carry the Root category and have exactly one child
// (the tree's actual top-level node).
func CanSave(t *Tree) bool {
	return Validate(t) == nil
}

// Validate explains why a document cannot be saved. The returned error
// wraps ErrInvalidDocument so callers can branch with errors.Is.
func Validate(t *Tree) error {
	roots := t.Roots()
	switch len(roots) {
	case 0:
		return fmt.Errorf("%w: document has no root", ErrInvalidDocument)
	case 1:
		// fall through
	default:
		return fmt.Errorf("%w: document has %d roots, expected exactly one", ErrInvalidDocument, len(roots))
	}

	root, _ := t.Get(roots[0])
	if root.Category != CategoryRoot {
		return fmt.Errorf("%w: top node is %s, expected a Root node", ErrInvalidDocument, root.Category)
	}
	if len(root.children) != 1 {
		return fmt.Errorf("%w: root has %d children, expected exactly one", ErrInvalidDocument, len(root.children))
	}
	return nil
}
