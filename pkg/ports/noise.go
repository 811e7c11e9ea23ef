package ports

// NoiseSource supplies uniformly distributed values in [0, 1).
// *math/rand/v2.Rand satisfies it.
type NoiseSource interface {
	Float64() float64
}
