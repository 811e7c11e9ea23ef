package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/ltree/internal/lsystem"
	"github.com/aretw0/ltree/internal/presentation/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBranches(t *testing.T) {
	root := graph.ParseBranches("F[+X][-F[-X]]", 0)

	assert.Equal(t, 1, root.Segments)
	require.Len(t, root.Children, 2)

	left, right := root.Children[0], root.Children[1]
	assert.Equal(t, "+", left.Heading)
	assert.Equal(t, 1, left.Leaves)
	assert.Equal(t, "-", right.Heading)
	assert.Equal(t, 1, right.Segments)
	require.Len(t, right.Children, 1)
	assert.Equal(t, 2, right.Children[0].Depth)
	assert.Equal(t, 4, root.Count())
}

func TestParseBranches_DepthLimitFolds(t *testing.T) {
	root := graph.ParseBranches("F[+X][-F[-X[+X]]]", 1)

	require.Len(t, root.Children, 2)
	right := root.Children[1]
	assert.Empty(t, right.Children)
	assert.Equal(t, 2, right.Hidden)
	assert.Equal(t, 2, right.Leaves) // folded leaves count toward the visible branch
	assert.Equal(t, 3, root.Count())
}

func TestParseBranches_UnbalancedAndEmpty(t *testing.T) {
	root := graph.ParseBranches("]]F[+X", 0)
	assert.Equal(t, 1, root.Segments)
	require.Len(t, root.Children, 1)
	assert.Equal(t, 1, root.Children[0].Leaves)

	empty := graph.ParseBranches("", 0)
	assert.Equal(t, 1, empty.Count())
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		sig      string
		depth    int
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Trunk Shape",
			sig:  "FX",
			contains: []string{
				"graph TD\n",
				`b0(("trunk <br/> 1F 1X"))`,
			},
		},
		{
			name: "Branch Edges",
			sig:  "F[+X][-X]",
			contains: []string{
				"b0 --> b1",
				"b0 --> b2",
				`b1["⟳ <br/> 0F 1X"]`,
				`b2["⟲ <br/> 0F 1X"]`,
			},
		},
		{
			name:  "Folded Shape",
			sig:   "F[+F[-X]]",
			depth: 1,
			contains: []string{
				`b1[["⟳ <br/> 1F 1X <br/> +1 folded"]]`,
			},
		},
		{
			name:    "Overlay",
			sig:     "F[+XX][-X]",
			overlay: &graph.Overlay{LeafThreshold: 2},
			contains: []string{
				"classDef leafy",
				"class b1 leafy;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(graph.ParseBranches(tt.sig, tt.depth), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestGenerateMermaid_ExpandedSignature(t *testing.T) {
	sig := lsystem.Expand("F[+X][-X]", 3)
	root := graph.ParseBranches(sig, 2)
	out := graph.GenerateMermaid(root, nil)
	assert.Equal(t, 7, root.Count())
	assert.Equal(t, 6, strings.Count(out, "-->"))
	assert.NotContains(t, out, "classDef")
}
