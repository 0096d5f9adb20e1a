package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Summarize builds a markdown report of a document, suitable for glamour
// rendering in the terminal.
func Summarize(tree *domain.Tree, models domain.TreeNodesModel) string {
	var sb strings.Builder

	sb.WriteString("# Document Summary\n\n")
	if err := domain.Validate(tree); err != nil {
		sb.WriteString(fmt.Sprintf("**Status:** invalid (%v)\n\n", err))
	} else {
		sb.WriteString("**Status:** valid\n\n")
	}

	counts := map[domain.Category]int{}
	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		counts[node.Category]++
	}
	sb.WriteString(fmt.Sprintf("**Nodes:** %d total", tree.Len()))
	for _, cat := range []domain.Category{domain.CategoryControl, domain.CategoryDecorator, domain.CategoryAction, domain.CategorySubTree} {
		if counts[cat] > 0 {
			sb.WriteString(fmt.Sprintf(", %d %s", counts[cat], cat))
		}
	}
	sb.WriteString("\n\n")

	if len(models) > 0 {
		sb.WriteString("## Node Models\n\n")
		for _, name := range models.SortedNames() {
			m := models[name]
			sb.WriteString(fmt.Sprintf("- **%s** (%s)", m.Name, m.Category))
			if len(m.Params) > 0 {
				labels := make([]string, 0, len(m.Params))
				for _, p := range m.Params {
					labels = append(labels, fmt.Sprintf("%s: %s", p.Label, p.Type))
				}
				sb.WriteString(": " + strings.Join(labels, ", "))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
