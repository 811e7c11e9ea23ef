package graph

import (
	"fmt"
	"strings"
)

// Overlay highlights branches on the generated chart.
type Overlay struct {
	// Highlight marks branches holding at least this many leaves. Zero disables it.
	LeafThreshold int
}

// GenerateMermaid produces a Mermaid flowchart of the branch tree. It applies
// semantic styling:
// - Trunk: ((Circle))
// - Branch with folded descendants: [[Subroutine]]
// - Default: [Rectangle]
func GenerateMermaid(root *Branch, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root.Walk(func(b *Branch) {
		id := nodeID(b)

		opener, closer := "[", "]"
		switch {
		case b.Depth == 0:
			opener, closer = "((", "))"
		case b.Hidden > 0:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label(b), closer))

		for _, c := range b.Children {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, nodeID(c)))
		}
	})

	if overlay != nil && overlay.LeafThreshold > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef leafy fill:#dcedc8,stroke:#33691e,stroke-width:2px,color:#000;\n")
		root.Walk(func(b *Branch) {
			if b.Leaves >= overlay.LeafThreshold {
				sb.WriteString(fmt.Sprintf("    class %s leafy;\n", nodeID(b)))
			}
		})
	}

	return sb.String()
}

func nodeID(b *Branch) string {
	return fmt.Sprintf("b%d", b.ID)
}

func label(b *Branch) string {
	name := "trunk"
	if b.Depth > 0 {
		name = "branch"
		if b.Heading != "" {
			// Mermaid labels treat a leading '-' oddly; spell turns out.
			name = strings.NewReplacer("+", "⟳", "-", "⟲").Replace(b.Heading)
		}
	}
	text := fmt.Sprintf("%s <br/> %dF %dX", name, b.Segments, b.Leaves)
	if b.Hidden > 0 {
		text += fmt.Sprintf(" <br/> +%d folded", b.Hidden)
	}
	return text
}
