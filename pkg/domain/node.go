package domain

// NodeID is an opaque handle for a node, unique within a document and
// stable for the node's lifetime, including across snapshot restore.
type NodeID string

// Position is a 2-D canvas coordinate assigned by the layout engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one element of the document graph. The owning Tree maintains the
// parent/child edges; the parent reference is an index only, never a second
// owner, so the structure stays an acyclic forest by construction.
type Node struct {
	ID       NodeID
	Type     string
	Category Category

	// Params is the declared parameter shape, copied from the NodeModel
	// at insert time. Values holds the assigned values keyed by label.
	Params []ParamSpec
	Values map[string]string

	Position Position

	parent   NodeID
	children []NodeID
}

// Parent returns the ID of the owning parent, or "" for a root.
func (n *Node) Parent() NodeID {
	return n.parent
}

// Children returns the ordered child IDs. The slice is a copy; mutate the
// tree through its API, not through this slice.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Param returns the declared spec for a label, if any.
func (n *Node) Param(label string) (ParamSpec, bool) {
	for _, p := range n.Params {
		if p.Label == label {
			return p, true
		}
	}
	return ParamSpec{}, false
}
