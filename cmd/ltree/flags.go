package main

import (
	"github.com/aretw0/ltree/pkg/preset"
	"github.com/spf13/cobra"
)

// addRequestFlags registers the tree parameters shared by render, signature
// and inspect.
func addRequestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("preset", "", "Named preset to start from")
	f.String("rule", "", "Production rule for X (alphabet F X + - [ ])")
	f.Float64("angle", 0, "Turn angle in degrees")
	f.Bool("noise", false, "Randomize angles and leaf colors")
	f.Int("iterations", 0, "Expansion depth")
	f.Float64("length", 0, "Base branch length in pixels")
	f.Int("width", 0, "Canvas width in pixels")
	f.Int("height", 0, "Canvas height in pixels")
	f.Uint64("seed", 0, "Noise seed for reproducible trees")
}

// requestFromFlags builds a request holding only the flags the user set, so
// unset flags fall back to the preset.
func requestFromFlags(cmd *cobra.Command) preset.Request {
	f := cmd.Flags()
	req := preset.Request{}
	req.Preset, _ = f.GetString("preset")

	if f.Changed("rule") {
		v, _ := f.GetString("rule")
		req.Rule = &v
	}
	if f.Changed("angle") {
		v, _ := f.GetFloat64("angle")
		req.Angle = &v
	}
	if f.Changed("noise") {
		v, _ := f.GetBool("noise")
		req.Noise = &v
	}
	if f.Changed("iterations") {
		v, _ := f.GetInt("iterations")
		req.Iterations = &v
	}
	if f.Changed("length") {
		v, _ := f.GetFloat64("length")
		req.Length = &v
	}
	if f.Changed("width") {
		v, _ := f.GetInt("width")
		req.Width = &v
	}
	if f.Changed("height") {
		v, _ := f.GetInt("height")
		req.Height = &v
	}
	if f.Changed("seed") {
		v, _ := f.GetUint64("seed")
		req.Seed = &v
	}
	return req
}
