package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/ltree/internal/presentation/tui"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	p, err := preset.Builtin().Get("classic")
	require.NoError(t, err)

	sig := domain.Signature{Rule: p.Rule, Iterations: 1, Text: "F[+F[+X][-X]][-F[+X][-X]]", Generated: true}
	out := tui.Report(p, sig, domain.Analyze(sig.Text), "graph TD\n    b0((\"trunk\"))\n")

	assert.True(t, strings.HasPrefix(out, "# classic\n"))
	assert.Contains(t, out, "| rule | `F[+X][-X]` |")
	assert.Contains(t, out, "| leaves | 4 |")
	assert.Contains(t, out, "| max depth | 2 |")
	assert.Contains(t, out, "```mermaid\ngraph TD")
	assert.NotContains(t, out, "Unbalanced")
}

func TestReport_TruncatesAndFlagsUnbalanced(t *testing.T) {
	p := preset.Preset{Name: "custom", Rule: "F]X"}
	text := strings.Repeat("F]", 200)
	out := tui.Report(p, domain.Signature{Text: text}, domain.Analyze(text), "")

	assert.Contains(t, out, "Unbalanced brackets: 200 unmatched")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, text)
	assert.NotContains(t, out, "mermaid")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "ltree v1.2.3")
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer(0)
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
