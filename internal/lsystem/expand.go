// Package lsystem expands a single-rule L-system into a signature.
package lsystem

import (
	"math"
	"strings"

	"github.com/aretw0/ltree/pkg/domain"
)

var nonTerminal = string(rune(domain.SymbolNonTerminal))

// Expand starts from rule and, iterations times, replaces every non-terminal
// in the current string with the original rule.
// iterations <= 0 returns rule unchanged.
func Expand(rule string, iterations int) string {
	out := rule
	if !strings.Contains(rule, nonTerminal) {
		return out
	}
	for i := 0; i < iterations; i++ {
		out = strings.ReplaceAll(out, nonTerminal, rule)
	}
	return out
}

// Length predicts len(Expand(rule, iterations)) without expanding.
// ok is false when the result does not fit in an int.
//
// With k non-terminals in a rule of length L, step n rewrites k^n symbols,
// each growing the string by L-1 bytes.
func Length(rule string, iterations int) (n int, ok bool) {
	l := len(rule)
	k := strings.Count(rule, nonTerminal)
	if iterations <= 0 || k == 0 || l <= 1 {
		return l, true
	}

	growth := l - 1
	total := l
	occurrences := k
	for i := 0; i < iterations; i++ {
		if occurrences > (math.MaxInt-total)/growth {
			return 0, false
		}
		total += occurrences * growth
		if i == iterations-1 {
			break
		}
		if occurrences > math.MaxInt/k {
			return 0, false
		}
		occurrences *= k
	}
	return total, true
}
