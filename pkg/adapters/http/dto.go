package http

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// TreeDTO is the JSON shape of a document exchanged with the monitor
// feed. It mirrors the snapshot encoding: flat node records with explicit
// child order.
type TreeDTO struct {
	Nodes  []NodeDTO  `json:"nodes"`
	Models []ModelDTO `json:"models,omitempty"`
}

type NodeDTO struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Category string            `json:"category"`
	Children []string          `json:"children,omitempty"`
	Params   []ParamDTO        `json:"params,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
	Position PositionDTO       `json:"position"`
}

type ParamDTO struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

type PositionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ModelDTO struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Params   []ParamDTO `json:"params,omitempty"`
}

// mapTreeToDomain builds a document from a feed payload. Nodes are
// created detached first so the payload's order is preserved, then edges
// are connected in recorded child order.
func mapTreeToDomain(dto TreeDTO) (*domain.Tree, domain.TreeNodesModel, error) {
	tree := domain.NewTree()

	for i, rec := range dto.Nodes {
		if rec.ID == "" {
			return nil, nil, fmt.Errorf("node %d is missing an id", i)
		}
		category, err := domain.ParseCategory(rec.Category)
		if err != nil {
			return nil, nil, fmt.Errorf("node %q: %w", rec.ID, err)
		}
		model := domain.NodeModel{Name: rec.Type, Category: category}
		for _, p := range rec.Params {
			paramType, err := domain.ParseParamType(p.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("node %q, param %q: %w", rec.ID, p.Label, err)
			}
			model.Params = append(model.Params, domain.ParamSpec{Label: p.Label, Type: paramType})
		}

		id, err := tree.InsertWithID("", domain.NodeID(rec.ID), model)
		if err != nil {
			return nil, nil, fmt.Errorf("node %q: %w", rec.ID, err)
		}
		node, _ := tree.Get(id)
		for label, value := range rec.Values {
			node.Values[label] = value
		}
		node.Position = domain.Position{X: rec.Position.X, Y: rec.Position.Y}
	}

	for _, rec := range dto.Nodes {
		for _, child := range rec.Children {
			if err := tree.Connect(domain.NodeID(rec.ID), domain.NodeID(child)); err != nil {
				return nil, nil, fmt.Errorf("edge %s -> %s: %w", rec.ID, child, err)
			}
		}
	}

	models := domain.TreeNodesModel{}
	for _, rec := range dto.Models {
		category, err := domain.ParseCategory(rec.Category)
		if err != nil {
			return nil, nil, fmt.Errorf("model %q: %w", rec.Name, err)
		}
		m := domain.NodeModel{Name: rec.Name, Category: category}
		for _, p := range rec.Params {
			paramType, err := domain.ParseParamType(p.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("model %q, param %q: %w", rec.Name, p.Label, err)
			}
			m.Params = append(m.Params, domain.ParamSpec{Label: p.Label, Type: paramType})
		}
		models[rec.Name] = m
	}

	return tree, models, nil
}

// mapTreeFromDomain flattens the live document into the feed shape.
func mapTreeFromDomain(tree *domain.Tree, models domain.TreeNodesModel) TreeDTO {
	dto := TreeDTO{}

	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		rec := NodeDTO{
			ID:       string(node.ID),
			Type:     node.Type,
			Category: string(node.Category),
			Position: PositionDTO{X: node.Position.X, Y: node.Position.Y},
		}
		for _, child := range node.Children() {
			rec.Children = append(rec.Children, string(child))
		}
		for _, p := range node.Params {
			rec.Params = append(rec.Params, ParamDTO{Label: p.Label, Type: string(p.Type)})
		}
		if len(node.Values) > 0 {
			rec.Values = make(map[string]string, len(node.Values))
			for label, value := range node.Values {
				rec.Values[label] = value
			}
		}
		dto.Nodes = append(dto.Nodes, rec)
	}

	for _, name := range models.SortedNames() {
		m := models[name]
		rec := ModelDTO{Name: m.Name, Category: string(m.Category)}
		for _, p := range m.Params {
			rec.Params = append(rec.Params, ParamDTO{Label: p.Label, Type: string(p.Type)})
		}
		dto.Models = append(dto.Models, rec)
	}

	return dto
}
