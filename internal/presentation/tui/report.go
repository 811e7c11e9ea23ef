package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/preset"
)

// previewChars bounds the signature excerpt printed in a report.
const previewChars = 240

// Report renders an inspection report of a preset and its signature as
// markdown. An empty mermaid chart is omitted.
func Report(p preset.Preset, sig domain.Signature, stats domain.Stats, mermaid string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", p.Description)
	}

	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| rule | `%s` |\n", p.Rule)
	fmt.Fprintf(&sb, "| angle | %g° |\n", p.Angle)
	fmt.Fprintf(&sb, "| noise | %t |\n", p.Noise)
	fmt.Fprintf(&sb, "| iterations | %d |\n", p.Iterations)
	fmt.Fprintf(&sb, "| length | %g |\n", p.Length)
	fmt.Fprintf(&sb, "| canvas | %dx%d |\n", p.Width, p.Height)
	if p.Seed != 0 {
		fmt.Fprintf(&sb, "| seed | %d |\n", p.Seed)
	}

	sb.WriteString("\n## Signature\n\n")
	sb.WriteString("| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&sb, "| length | %d |\n", stats.Length)
	fmt.Fprintf(&sb, "| segments | %d |\n", stats.Segments)
	fmt.Fprintf(&sb, "| leaves | %d |\n", stats.Leaves)
	fmt.Fprintf(&sb, "| turns | %d |\n", stats.Turns)
	fmt.Fprintf(&sb, "| branches | %d |\n", stats.Branches)
	fmt.Fprintf(&sb, "| max depth | %d |\n", stats.MaxDepth)
	if !stats.Balanced() {
		fmt.Fprintf(&sb, "\n> Unbalanced brackets: %d unmatched `]`, %d unclosed `[`.\n",
			stats.UnmatchedClose, stats.UnclosedOpen)
	}

	text := sig.Text
	if len(text) > previewChars {
		text = text[:previewChars] + "…"
	}
	fmt.Fprintf(&sb, "\n```\n%s\n```\n", text)

	if mermaid != "" {
		fmt.Fprintf(&sb, "\n## Branches\n\n```mermaid\n%s```\n", mermaid)
	}
	return sb.String()
}
