package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Tree is the arena that owns all nodes of one document. Parents own
// their children exclusively; removing a node removes its whole subtree.
//
// Tree is not safe for concurrent use. The editor session serializes all
// access on its own mutex (there is exactly one writer by construction).
type Tree struct {
	nodes map[NodeID]*Node
	order []NodeID // insertion order, kept stable across snapshot restore
}

// NewTree creates an empty document.
func NewTree() *Tree {
	return &Tree{nodes: make(map[NodeID]*Node)}
}

// Len returns the number of nodes in the document.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the node for an ID.
func (t *Tree) Get(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all node IDs in insertion order.
func (t *Tree) Nodes() []NodeID {
	out := make([]NodeID, len(t.order))
	copy(out, t.order)
	return out
}

// Roots returns the IDs of all nodes without a parent, in insertion order.
// A valid document has exactly one.
func (t *Tree) Roots() []NodeID {
	var roots []NodeID
	for _, id := range t.order {
		if t.nodes[id].parent == "" {
			roots = append(roots, id)
		}
	}
	return roots
}

// ChildrenOf returns the ordered child IDs of a node.
func (t *Tree) ChildrenOf(id NodeID) ([]NodeID, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n.Children(), nil
}

// Insert creates a new node of the given model and appends it to the
// parent's child list (child order is meaningful for Control execution
// order downstream). An empty parentID creates a detached root candidate.
func (t *Tree) Insert(parentID NodeID, model NodeModel) (NodeID, error) {
	return t.InsertWithID(parentID, NodeID(uuid.NewString()), model)
}

// InsertWithID is Insert with a caller-chosen ID. The codec and the
// snapshot restorer use it to keep node identity stable across rebuilds.
func (t *Tree) InsertWithID(parentID, id NodeID, model NodeModel) (NodeID, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrDuplicateNode)
	}
	if _, exists := t.nodes[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	if parentID != "" {
		if _, ok := t.nodes[parentID]; !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidParent, parentID)
		}
	}

	params := make([]ParamSpec, len(model.Params))
	copy(params, model.Params)

	n := &Node{
		ID:       id,
		Type:     model.Name,
		Category: model.Category,
		Params:   params,
		Values:   make(map[string]string),
	}
	t.nodes[id] = n
	t.order = append(t.order, id)

	if parentID != "" {
		parent := t.nodes[parentID]
		parent.children = append(parent.children, id)
		n.parent = parentID
	}
	return id, nil
}

// Remove deletes a node and its entire subtree. Children are exclusively
// owned, so there is no detach-and-reparent.
func (t *Tree) Remove(id NodeID) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	if n.parent != "" {
		parent := t.nodes[n.parent]
		parent.children = removeID(parent.children, id)
	}

	// Iterative subtree delete to avoid recursion on deep trees.
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.nodes[cur]
		stack = append(stack, node.children...)
		delete(t.nodes, cur)
		t.order = removeID(t.order, cur)
	}
	return nil
}

// Connect attaches an existing detached node under a parent, appending it
// to the child list. It rejects occupied children, self-edges and anything
// that would close a cycle.
func (t *Tree) Connect(parentID, childID NodeID) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidParent, parentID)
	}
	child, ok := t.nodes[childID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, childID)
	}
	if child.parent != "" {
		return fmt.Errorf("%w: node %s already has a parent", ErrInvalidParent, childID)
	}
	if parentID == childID {
		return fmt.Errorf("%w: cannot connect node to itself", ErrInvalidParent)
	}
	// The parent must not live inside the child's subtree.
	for cur := parentID; cur != ""; cur = t.nodes[cur].parent {
		if cur == childID {
			return fmt.Errorf("%w: connection would create a cycle", ErrInvalidParent)
		}
	}

	parent.children = append(parent.children, childID)
	child.parent = parentID
	return nil
}

// Disconnect detaches a node from its parent, leaving its subtree intact
// as a new root candidate.
func (t *Tree) Disconnect(childID NodeID) error {
	child, ok := t.nodes[childID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, childID)
	}
	if child.parent == "" {
		return nil
	}
	parent := t.nodes[child.parent]
	parent.children = removeID(parent.children, childID)
	child.parent = ""
	return nil
}

// SetParameter assigns a value to a declared parameter. Undeclared labels
// fail with ErrUnknownParameter; Int and Double values must parse.
func (t *Tree) SetParameter(id NodeID, label, value string) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	spec, ok := n.Param(label)
	if !ok {
		return fmt.Errorf("%w: %q on node type %s", ErrUnknownParameter, label, n.Type)
	}
	switch spec.Type {
	case ParamInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("%w: %q expects an Int, got %q", ErrUnknownParameter, label, value)
		}
	case ParamDouble:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%w: %q expects a Double, got %q", ErrUnknownParameter, label, value)
		}
	}
	n.Values[label] = value
	return nil
}

// SetPosition stores the layout coordinate for a node.
func (t *Tree) SetPosition(id NodeID, pos Position) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.Position = pos
	return nil
}

// Clear removes every node, leaving an empty document.
func (t *Tree) Clear() {
	t.nodes = make(map[NodeID]*Node)
	t.order = nil
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	for i, cur := range ids {
		if cur == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
