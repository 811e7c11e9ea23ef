package domain

import (
	"fmt"
	"strings"
)

// Config is the caller-owned description of a tree.
// It is copied by value at the start of every generate or draw pass, so a
// mutation only affects the next pass.
type Config struct {
	Rule  string  `json:"rule" yaml:"rule" mapstructure:"rule"`
	Angle float64 `json:"angle" yaml:"angle" mapstructure:"angle"`
	Noise bool    `json:"noise" yaml:"noise" mapstructure:"noise"`
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{
		Rule:  DefaultRule,
		Angle: DefaultAngle,
	}
}

// Validate reports whether the rule only uses the signature alphabet.
// Unknown runes are tolerated by the interpreter, so this is only used by
// strict front-ends such as preset files.
func (c Config) Validate() error {
	if c.Rule == "" {
		return fmt.Errorf("%w: empty rule", ErrInvalidConfig)
	}
	if i := strings.IndexFunc(c.Rule, func(r rune) bool { return !IsSymbol(r) }); i >= 0 {
		return fmt.Errorf("%w: rule has unknown symbol %q at %d", ErrInvalidConfig, c.Rule[i], i)
	}
	return nil
}

// IsSymbol reports whether r belongs to the signature alphabet.
func IsSymbol(r rune) bool {
	switch r {
	case SymbolForward, SymbolLeaf, SymbolTurnRight, SymbolTurnLeft, SymbolPush, SymbolPop:
		return true
	}
	return false
}
