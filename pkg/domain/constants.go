package domain

// Symbols of the signature alphabet.
const (
	SymbolForward   = 'F'
	SymbolLeaf      = 'X'
	SymbolTurnRight = '+'
	SymbolTurnLeft  = '-'
	SymbolPush      = '['
	SymbolPop       = ']'
)

// SymbolNonTerminal is the symbol rewritten by the production rule.
const SymbolNonTerminal = SymbolLeaf

// Defaults applied by NewConfig.
const (
	DefaultRule       = "F[+X][-X]"
	DefaultAngle      = 20.0
	DefaultIterations = 4
)

// Field constants for mapstructure and JSON standardization.
const (
	KeyRule       = "rule"
	KeyAngle      = "angle"
	KeyNoise      = "noise"
	KeyIterations = "iterations"
	KeyLength     = "length"
	KeyWidth      = "width"
	KeyHeight     = "height"
	KeySeed       = "seed"
)
