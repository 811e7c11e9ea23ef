package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ltree ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	leaf := func(s string) termenv.Style { return out.String(s).Foreground(out.Color("#66bb6a")) }
	bark := func(s string) termenv.Style { return out.String(s).Foreground(out.Color("#8d6e63")) }

	fmt.Fprintln(w)
	fmt.Fprintln(w, leaf("        ,@@@@,        "))
	fmt.Fprintln(w, leaf("     ,@@@@@@@@@@,     "))
	fmt.Fprintln(w, leaf("    @@@@@@@@@@@@@@    "))
	fmt.Fprintln(w, leaf("     '@@@@").String()+bark("||").String()+leaf("@@@@'     ").String())
	fmt.Fprintln(w, bark("          ||          ").String()+out.String("ltree "+version).Bold().String())
	fmt.Fprintln(w, bark("        __||__        "))
	fmt.Fprintln(w)
}
