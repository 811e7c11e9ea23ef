package preset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Defaults for fields a preset leaves out.
const (
	DefaultLength = 120.0
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Format is the encoding of a preset document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed preset.schema.json
var schemaJSON []byte

//go:embed builtin.yaml
var builtinYAML []byte

const schemaURL = "https://github.com/aretw0/ltree/preset.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error

	builtinOnce sync.Once
	builtin     *Set
)

// Preset is a named, complete rendering setup.
type Preset struct {
	Name        string  `json:"name" yaml:"name" mapstructure:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Rule        string  `json:"rule" yaml:"rule" mapstructure:"rule"`
	Angle       float64 `json:"angle" yaml:"angle" mapstructure:"angle"`
	Noise       bool    `json:"noise" yaml:"noise" mapstructure:"noise"`
	Iterations  int     `json:"iterations" yaml:"iterations" mapstructure:"iterations"`
	Length      float64 `json:"length" yaml:"length" mapstructure:"length"`
	Width       int     `json:"width" yaml:"width" mapstructure:"width"`
	Height      int     `json:"height" yaml:"height" mapstructure:"height"`
	Seed        uint64  `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
}

// Config returns the tree configuration part of the preset.
func (p Preset) Config() domain.Config {
	return domain.Config{Rule: p.Rule, Angle: p.Angle, Noise: p.Noise}
}

// Set is an ordered collection of presets addressable by name.
type Set struct {
	presets []Preset
	byName  map[string]int
}

// Get returns the preset called name.
func (s *Set) Get(name string) (Preset, error) {
	i, ok := s.byName[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (available: %s)", domain.ErrUnknownPreset, name, strings.Join(s.Names(), ", "))
	}
	return s.presets[i], nil
}

// All returns the presets in file order.
func (s *Set) All() []Preset {
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Names returns the preset names sorted alphabetically.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.presets))
	for _, p := range s.presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of presets.
func (s *Set) Len() int { return len(s.presets) }

// Builtin returns the presets shipped with the library.
func Builtin() *Set {
	builtinOnce.Do(func() {
		set, err := Parse(builtinYAML, FormatYAML)
		if err != nil {
			panic(fmt.Sprintf("preset: invalid builtin presets: %v", err))
		}
		builtin = set
	})
	return builtin
}

// Load reads a preset file. The format follows the extension: .json is JSON,
// anything else is YAML.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	set, err := Parse(data, format)
	if err != nil {
		var aggr *AggregateError
		if errors.As(err, &aggr) {
			aggr.Source = path
		}
		return nil, err
	}
	return set, nil
}

// Parse validates and decodes a preset document.
func Parse(data []byte, format Format) (*Set, error) {
	doc, err := decodeGeneric(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if err := validate(doc); err != nil {
		return nil, err
	}

	var raw struct {
		Presets []map[string]any `mapstructure:"presets"`
	}
	if err := mapstructure.Decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	set := &Set{byName: make(map[string]int, len(raw.Presets))}
	for i, m := range raw.Presets {
		p := Preset{
			Angle:      domain.DefaultAngle,
			Iterations: domain.DefaultIterations,
			Length:     DefaultLength,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &p,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, fmt.Errorf("%w: preset %d: %v", domain.ErrInvalidConfig, i, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if _, dup := set.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate preset %q", domain.ErrInvalidConfig, p.Name)
		}
		set.byName[p.Name] = len(set.presets)
		set.presets = append(set.presets, p)
	}
	return set, nil
}

// decodeGeneric returns the document as JSON-compatible values, which is
// what the schema validator expects.
func decodeGeneric(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return doc, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		// Round-trip through JSON to normalize YAML scalars and map types.
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return decodeGeneric(b, FormatJSON)
	}
	return nil, fmt.Errorf("unsupported preset format %q", format)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

func validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile preset schema: %w", err)
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	aggr := &AggregateError{Source: "presets"}
	collectLeaves(verr, aggr)
	return aggr
}

func collectLeaves(verr *jsonschema.ValidationError, aggr *AggregateError) {
	if len(verr.Causes) == 0 {
		aggr.Errors = append(aggr.Errors, &ValidationError{Location: verr.InstanceLocation, Reason: verr.Message})
		return
	}
	for _, c := range verr.Causes {
		collectLeaves(c, aggr)
	}
}
