package preset

import (
	"fmt"
	"math"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Canvas bounds accepted by Resolve.
const (
	MaxCanvas     = 4096
	MaxIterations = 12
)

// Request is a partial preset, as sent by an HTTP query, a websocket frame
// or an MCP tool call. Nil fields fall back to the named preset.
type Request struct {
	Preset     string   `json:"preset,omitempty" mapstructure:"preset"`
	Rule       *string  `json:"rule,omitempty" mapstructure:"rule"`
	Angle      *float64 `json:"angle,omitempty" mapstructure:"angle"`
	Noise      *bool    `json:"noise,omitempty" mapstructure:"noise"`
	Iterations *int     `json:"iterations,omitempty" mapstructure:"iterations"`
	Length     *float64 `json:"length,omitempty" mapstructure:"length"`
	Width      *int     `json:"width,omitempty" mapstructure:"width"`
	Height     *int     `json:"height,omitempty" mapstructure:"height"`
	Seed       *uint64  `json:"seed,omitempty" mapstructure:"seed"`
}

// DecodeRequest decodes loosely typed values (query strings, tool
// arguments) into a Request. Unknown keys are rejected.
func DecodeRequest(values map[string]any) (Request, error) {
	var req Request
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Request{}, err
	}
	if err := dec.Decode(values); err != nil {
		return Request{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return req, nil
}

// Resolve applies the request over its base preset from set. Without a
// preset name the base is the library defaults with noise off.
func (r Request) Resolve(set *Set) (Preset, error) {
	p := Preset{
		Name:       "custom",
		Rule:       domain.DefaultRule,
		Angle:      domain.DefaultAngle,
		Iterations: domain.DefaultIterations,
		Length:     DefaultLength,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
	if r.Preset != "" {
		if set == nil {
			set = Builtin()
		}
		base, err := set.Get(r.Preset)
		if err != nil {
			return Preset{}, err
		}
		p = base
	}

	if r.Rule != nil {
		p.Rule = *r.Rule
	}
	if r.Angle != nil {
		p.Angle = *r.Angle
	}
	if r.Noise != nil {
		p.Noise = *r.Noise
	}
	if r.Iterations != nil {
		p.Iterations = *r.Iterations
	}
	if r.Length != nil {
		p.Length = *r.Length
	}
	if r.Width != nil {
		p.Width = *r.Width
	}
	if r.Height != nil {
		p.Height = *r.Height
	}
	if r.Seed != nil {
		p.Seed = *r.Seed
	}

	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// Validate checks the preset against the bounds front-ends accept.
func (p Preset) Validate() error {
	if err := p.Config().Validate(); err != nil {
		return err
	}
	switch {
	case p.Iterations < 0 || p.Iterations > MaxIterations:
		return fmt.Errorf("%w: iterations %d outside [0, %d]", domain.ErrInvalidConfig, p.Iterations, MaxIterations)
	case p.Width < 1 || p.Width > MaxCanvas || p.Height < 1 || p.Height > MaxCanvas:
		return fmt.Errorf("%w: canvas %dx%d outside [1, %d]", domain.ErrInvalidConfig, p.Width, p.Height, MaxCanvas)
	case !(p.Length > 0) || math.IsInf(p.Length, 0):
		return fmt.Errorf("%w: length must be positive", domain.ErrInvalidConfig)
	case math.IsNaN(p.Angle) || math.IsInf(p.Angle, 0):
		return fmt.Errorf("%w: angle must be finite", domain.ErrInvalidConfig)
	}
	return nil
}
