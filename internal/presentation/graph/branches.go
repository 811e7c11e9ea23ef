package graph

import "github.com/aretw0/ltree/pkg/domain"

// Branch is one bracketed sub-branch of a signature. The trunk is the
// branch at depth 0.
type Branch struct {
	ID       int
	Depth    int
	Heading  string // turn symbols opening the branch, e.g. "+" or "--"
	Segments int
	Leaves   int
	Hidden   int // descendants folded into this branch by the depth limit
	Children []*Branch
}

// ParseBranches builds the branch tree of a signature. Branches deeper than
// maxDepth (when positive) are folded into their visible ancestor. An
// unmatched close bracket is ignored, as when drawing.
func ParseBranches(sig string, maxDepth int) *Branch {
	nextID := 0
	root := &Branch{ID: nextID}
	stack := []*Branch{root}
	hiddenDepth := 0 // open brackets below the depth limit

	for i := 0; i < len(sig); i++ {
		top := stack[len(stack)-1]
		switch sig[i] {
		case domain.SymbolForward:
			top.Segments++
		case domain.SymbolLeaf:
			top.Leaves++
		case domain.SymbolTurnLeft, domain.SymbolTurnRight:
			if hiddenDepth == 0 && top.Segments == 0 && top.Leaves == 0 && len(top.Children) == 0 {
				top.Heading += string(sig[i])
			}
		case domain.SymbolPush:
			if hiddenDepth > 0 || (maxDepth > 0 && top.Depth >= maxDepth) {
				hiddenDepth++
				top.Hidden++
				continue
			}
			nextID++
			child := &Branch{ID: nextID, Depth: top.Depth + 1}
			top.Children = append(top.Children, child)
			stack = append(stack, child)
		case domain.SymbolPop:
			if hiddenDepth > 0 {
				hiddenDepth--
				continue
			}
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return root
}

// Walk visits b and its descendants depth first.
func (b *Branch) Walk(fn func(*Branch)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Count returns the number of visible branches, including b.
func (b *Branch) Count() int {
	n := 0
	b.Walk(func(*Branch) { n++ })
	return n
}
