// Package render resolves render requests into presets and draws them onto
// the library surfaces. It is shared by the HTTP, websocket, MCP and CLI
// front-ends so they all render a given request identically.
package render

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/adapters/raster"
	"github.com/aretw0/ltree/pkg/adapters/recording"
	"github.com/aretw0/ltree/pkg/adapters/svg"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/ports"
	"github.com/aretw0/ltree/pkg/preset"
)

// Renderer builds a fresh Tree per render from shared base options such as
// the signature cache, locker, hooks and limits. Trees are not safe for
// concurrent use; the Renderer is.
type Renderer struct {
	presets *preset.Set
	base    []ltree.Option
}

// New creates a Renderer. A nil preset set selects the builtin presets.
func New(presets *preset.Set, base ...ltree.Option) *Renderer {
	if presets == nil {
		presets = preset.Builtin()
	}
	return &Renderer{presets: presets, base: base}
}

// Presets returns the preset set requests are resolved against.
func (r *Renderer) Presets() *preset.Set { return r.presets }

// Resolve applies req over its named preset.
func (r *Renderer) Resolve(req preset.Request) (preset.Preset, error) {
	return req.Resolve(r.presets)
}

// Tree creates a Tree configured for p.
func (r *Renderer) Tree(p preset.Preset) *ltree.Tree {
	opts := append(slices.Clone(r.base), ltree.WithPreset(p))
	return ltree.New(opts...)
}

// Draw renders p onto s from the canonical anchor.
func (r *Renderer) Draw(ctx context.Context, p preset.Preset, s ports.Surface) (domain.Stats, error) {
	tree := r.Tree(p)
	x, y := ltree.Anchor(s)
	if err := tree.Draw(ctx, s, x, y, p.Length, p.Iterations); err != nil {
		return domain.Stats{}, err
	}
	return tree.Stats(), nil
}

// SVG renders p to an SVG document.
func (r *Renderer) SVG(ctx context.Context, p preset.Preset, opts ...svg.Option) (*svg.Surface, error) {
	s := svg.New(float64(p.Width), float64(p.Height), opts...)
	if _, err := r.Draw(ctx, p, s); err != nil {
		return nil, fmt.Errorf("failed to render svg: %w", err)
	}
	return s, nil
}

// PNG renders p to an RGBA image.
func (r *Renderer) PNG(ctx context.Context, p preset.Preset, opts ...raster.Option) (*raster.Surface, error) {
	s := raster.New(p.Width, p.Height, opts...)
	if _, err := r.Draw(ctx, p, s); err != nil {
		return nil, fmt.Errorf("failed to render png: %w", err)
	}
	return s, nil
}

// Record renders p onto a recording surface, for streaming to a client that
// replays the commands on its own canvas.
func (r *Renderer) Record(ctx context.Context, p preset.Preset) (*recording.Recorder, domain.Stats, error) {
	rec := recording.NewRecorder(float64(p.Width), float64(p.Height))
	stats, err := r.Draw(ctx, p, rec)
	if err != nil {
		return nil, domain.Stats{}, fmt.Errorf("failed to record drawing: %w", err)
	}
	return rec, stats, nil
}

// Signature generates the signature of p without drawing it.
func (r *Renderer) Signature(ctx context.Context, p preset.Preset) (domain.Signature, domain.Stats, error) {
	tree := r.Tree(p)
	sig, err := tree.Generate(ctx, p.Iterations)
	if err != nil {
		return domain.Signature{}, domain.Stats{}, err
	}
	return sig, tree.Stats(), nil
}
