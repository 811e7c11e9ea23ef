package ltree

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/ports"
	"github.com/aretw0/ltree/pkg/preset"
)

// Option defines a functional option for configuring a Tree.
type Option func(*Tree)

// WithConfig replaces the whole configuration.
func WithConfig(cfg domain.Config) Option {
	return func(t *Tree) {
		t.config = cfg
	}
}

// WithRule sets the production rule (default "F[+X][-X]").
func WithRule(rule string) Option {
	return func(t *Tree) {
		t.config.Rule = rule
	}
}

// WithAngle sets the base turn angle in degrees (default 20).
func WithAngle(degrees float64) Option {
	return func(t *Tree) {
		t.config.Angle = degrees
	}
}

// WithNoise enables angle and leaf-tint jitter.
func WithNoise(enabled bool) Option {
	return func(t *Tree) {
		t.config.Noise = enabled
	}
}

// WithNoiseSource injects the randomness used when noise is enabled.
// Injecting a source does not enable noise by itself.
func WithNoiseSource(src ports.NoiseSource) Option {
	return func(t *Tree) {
		t.source = src
	}
}

// WithSeed uses a deterministic PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(t *Tree) {
		t.source = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithPreset applies the rule, angle and noise of p. A non-zero seed also
// makes the noise deterministic.
func WithPreset(p preset.Preset) Option {
	return func(t *Tree) {
		t.config = p.Config()
		if p.Seed != 0 {
			WithSeed(p.Seed)(t)
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tree) {
		t.hooks = hooks
	}
}

// WithSignatureCache shares expanded signatures through cache.
func WithSignatureCache(cache ports.SignatureCache) Option {
	return func(t *Tree) {
		t.cache = cache
	}
}

// WithLocker serializes expansions of the same key across processes sharing
// the signature cache. It has no effect without WithSignatureCache.
func WithLocker(l ports.Locker) Option {
	return func(t *Tree) {
		t.locker = l
	}
}

// WithMaxIterations rejects generations deeper than n with domain.ErrIterationLimit.
// Zero (the default) means no cap.
func WithMaxIterations(n int) Option {
	return func(t *Tree) {
		t.maxIter = n
	}
}

// WithMaxLength rejects generations whose expansion would exceed n symbols.
// The length is predicted before expanding. Zero means no cap.
func WithMaxLength(n int) Option {
	return func(t *Tree) {
		t.maxLength = n
	}
}

// WithMaxDepth prunes sub-branches nested deeper than depth while drawing.
func WithMaxDepth(depth int) Option {
	return func(t *Tree) {
		t.maxDepth = depth
	}
}
