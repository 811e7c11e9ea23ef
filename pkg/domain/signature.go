package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Signature is a fully expanded instruction string together with the
// parameters that produced it.
// The zero value is the "never generated" sentinel.
type Signature struct {
	Rule       string `json:"rule"`
	Iterations int    `json:"iterations"`
	Text       string `json:"text"`
	Generated  bool   `json:"generated"`
}

// Matches reports whether the signature can be reused for the given rule and
// iteration count.
func (s Signature) Matches(rule string, iterations int) bool {
	return s.Generated && s.Rule == rule && s.Iterations == iterations
}

// Key returns the cache key of the signature.
func (s Signature) Key() string {
	return CacheKey(s.Rule, s.Iterations)
}

// CacheKey derives a stable cache key from a rule and an iteration count.
// Rules are hashed so arbitrary strings are safe as store keys.
func CacheKey(rule string, iterations int) string {
	sum := sha256.Sum256([]byte(rule))
	return hex.EncodeToString(sum[:12]) + ":" + strconv.Itoa(iterations)
}
