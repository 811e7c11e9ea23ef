/*
Package ltree draws tree-like fractals described by a single-rule L-system.

It implements a two-stage pipeline: the production rule is expanded into a
signature (an instruction string over the alphabet F, X, +, -, [ and ]), and
the signature is interpreted once, left to right, as stack-based turtle
graphics against a 2D drawing surface. Branch width, opacity and length taper
with nesting depth; angle and leaf-tint jitter can be enabled with an
injectable noise source.

# Concept

The Tree owns its configuration and the last generated signature. Drawing
regenerates the signature lazily, only when the requested iteration count
differs from the cached one. The drawing surface is a driven port
(ports.Surface): the library ships SVG, PNG, recording and websocket
implementations, and hosts can provide their own.

# Symbols

  - F: Draw a segment and advance to its tip.
  - X: Draw a leaf (also the non-terminal rewritten by the rule).
  - + / -: Turn clockwise / counter-clockwise by the configured angle.
  - [ / ]: Save / restore the turtle frame, entering / leaving a sub-branch.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/ltree"
		"github.com/aretw0/ltree/pkg/adapters/svg"
	)

	func main() {
		tree := ltree.New(ltree.WithAngle(25))

		surface := svg.New(640, 480)
		x, y := ltree.Anchor(surface)
		if err := tree.Draw(context.Background(), surface, x, y, 120, 5); err != nil {
			log.Fatal(err)
		}

		if _, err := surface.WriteTo(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

Iteration counts grow the signature exponentially when the rule holds
several X symbols; WithMaxIterations and WithMaxLength bound the work.
*/
package ltree
