/*
Package snapshot implements the undo/redo engine for behavior-tree
documents.

A Snapshot is an opaque serialized blob capturing the full document state
at a point in time. It is a compact internal encoding used purely for
history and rollback, distinct from the persisted XML format. The encoding
is canonical: capturing the same document state always yields the same
bytes, so value equality of snapshots is plain byte equality.
*/
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/arbor/pkg/domain"
)

// Snapshot is a canonical serialized document state.
type Snapshot []byte

// Equal reports value equality of two snapshots.
func (s Snapshot) Equal(other Snapshot) bool {
	return bytes.Equal(s, other)
}

// document is the wire form of a captured state.
type document struct {
	Nodes  []nodeRecord  `json:"nodes"`
	Models []modelRecord `json:"models,omitempty"`
}

type nodeRecord struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Parent   string          `json:"parent,omitempty"`
	Children []string        `json:"children,omitempty"`
	Params   []paramRecord   `json:"params,omitempty"`
	Values   []valueRecord   `json:"values,omitempty"`
	Position domain.Position `json:"position"`
}

type paramRecord struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

type valueRecord struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type modelRecord struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Params   []paramRecord `json:"params,omitempty"`
}

// Capture serializes the full document state. Nodes are recorded in the
// tree's insertion order, which Restore reproduces, so a capture/restore
// cycle is byte-stable.
func Capture(tree *domain.Tree, models domain.TreeNodesModel) (Snapshot, error) {
	doc := document{}

	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		rec := nodeRecord{
			ID:       string(node.ID),
			Type:     node.Type,
			Category: string(node.Category),
			Parent:   string(node.Parent()),
			Position: node.Position,
		}
		for _, child := range node.Children() {
			rec.Children = append(rec.Children, string(child))
		}
		for _, p := range node.Params {
			rec.Params = append(rec.Params, paramRecord{Label: p.Label, Type: string(p.Type)})
		}
		// Map iteration order is not stable; sort values by label so the
		// encoding stays canonical.
		labels := make([]string, 0, len(node.Values))
		for label := range node.Values {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			rec.Values = append(rec.Values, valueRecord{Label: label, Value: node.Values[label]})
		}
		doc.Nodes = append(doc.Nodes, rec)
	}

	for _, name := range models.SortedNames() {
		m := models[name]
		rec := modelRecord{Name: m.Name, Category: string(m.Category)}
		for _, p := range m.Params {
			rec.Params = append(rec.Params, paramRecord{Label: p.Label, Type: string(p.Type)})
		}
		doc.Models = append(doc.Models, rec)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to capture document: %w", err)
	}
	return Snapshot(data), nil
}

// Restore rebuilds the exact document a snapshot was captured from: same
// node IDs, same child order, same parameter values, same positions.
func Restore(snap Snapshot) (*domain.Tree, domain.TreeNodesModel, error) {
	var doc document
	if err := json.Unmarshal(snap, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to restore document: %w", err)
	}

	tree := domain.NewTree()

	// First pass: recreate every node detached so insertion order matches
	// the captured order exactly.
	for _, rec := range doc.Nodes {
		model := domain.NodeModel{
			Name:     rec.Type,
			Category: domain.Category(rec.Category),
		}
		for _, p := range rec.Params {
			model.Params = append(model.Params, domain.ParamSpec{Label: p.Label, Type: domain.ParamType(p.Type)})
		}

		id, err := tree.InsertWithID("", domain.NodeID(rec.ID), model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to restore node %s: %w", rec.ID, err)
		}
		node, _ := tree.Get(id)
		for _, v := range rec.Values {
			node.Values[v.Label] = v.Value
		}
		node.Position = rec.Position
	}

	// Second pass: reconnect edges in recorded child order.
	for _, rec := range doc.Nodes {
		for _, child := range rec.Children {
			if err := tree.Connect(domain.NodeID(rec.ID), domain.NodeID(child)); err != nil {
				return nil, nil, fmt.Errorf("failed to restore edge %s -> %s: %w", rec.ID, child, err)
			}
		}
	}

	models := domain.TreeNodesModel{}
	for _, rec := range doc.Models {
		m := domain.NodeModel{Name: rec.Name, Category: domain.Category(rec.Category)}
		for _, p := range rec.Params {
			m.Params = append(m.Params, domain.ParamSpec{Label: p.Label, Type: domain.ParamType(p.Type)})
		}
		models[rec.Name] = m
	}

	return tree, models, nil
}
