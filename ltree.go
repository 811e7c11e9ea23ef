package ltree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/ltree/internal/lsystem"
	"github.com/aretw0/ltree/internal/turtle"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/ports"
)

// DefaultIterations is the expansion depth used by callers that do not choose one.
const DefaultIterations = domain.DefaultIterations

// lockTTL bounds how long a crashed holder can block other expansions of a key.
const lockTTL = 30 * time.Second

// Tree is the high-level entry point of the library.
// It owns a Config, mutated only through its setters, and the last generated
// Signature. A Tree is not safe for concurrent use; callers serialize
// Generate and Draw on one instance.
type Tree struct {
	config    domain.Config
	signature domain.Signature

	source    ports.NoiseSource
	cache     ports.SignatureCache
	locker    ports.Locker
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	maxIter   int
	maxLength int
	maxDepth  int

	interpreter *turtle.Interpreter
}

// New creates a Tree with the default rule, angle and noise disabled.
func New(opts ...Option) *Tree {
	t := &Tree{
		config: domain.NewConfig(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if t.source == nil {
		now := uint64(time.Now().UnixNano())
		t.source = rand.New(rand.NewPCG(now, now>>1))
	}

	t.interpreter = turtle.New(
		turtle.WithLogger(t.logger),
		turtle.WithMaxDepth(t.maxDepth),
	)
	return t
}

// SetRule replaces the production rule. It takes effect on the next generation.
func (t *Tree) SetRule(rule string) {
	t.config.Rule = rule
}

// SetAngle sets the base turn angle in degrees.
func (t *Tree) SetAngle(degrees float64) {
	t.config.Angle = degrees
}

// SetNoise enables or disables angle and leaf-tint jitter.
func (t *Tree) SetNoise(enabled bool) {
	t.config.Noise = enabled
}

// SetNoiseSource replaces the randomness used when noise is enabled.
// A nil source leaves the current one in place.
func (t *Tree) SetNoiseSource(src ports.NoiseSource) {
	if src != nil {
		t.source = src
	}
}

// Config returns a copy of the current configuration.
func (t *Tree) Config() domain.Config {
	return t.config
}

// Signature returns the cached signature. Its Generated field is false until
// the first generation.
func (t *Tree) Signature() domain.Signature {
	return t.signature
}

// Stats analyzes the cached signature.
func (t *Tree) Stats() domain.Stats {
	return domain.Analyze(t.signature.Text)
}

// Generate expands the current rule for the given number of iterations and
// replaces the cached signature.
func (t *Tree) Generate(ctx context.Context, iterations int) (domain.Signature, error) {
	cfg := t.config
	sig, err := t.generate(ctx, cfg, iterations)
	if err != nil {
		return domain.Signature{}, err
	}
	t.signature = sig
	return sig, nil
}

func (t *Tree) generate(ctx context.Context, cfg domain.Config, iterations int) (domain.Signature, error) {
	if iterations < 0 {
		return domain.Signature{}, fmt.Errorf("%w: %d", domain.ErrInvalidIterations, iterations)
	}
	if t.maxIter > 0 && iterations > t.maxIter {
		return domain.Signature{}, fmt.Errorf("%w: %d > %d", domain.ErrIterationLimit, iterations, t.maxIter)
	}
	if t.maxLength > 0 {
		n, ok := lsystem.Length(cfg.Rule, iterations)
		if !ok || n > t.maxLength {
			return domain.Signature{}, fmt.Errorf("%w: expansion exceeds %d symbols", domain.ErrIterationLimit, t.maxLength)
		}
	}

	start := time.Now()
	key := domain.CacheKey(cfg.Rule, iterations)

	if t.cache != nil {
		if cached, ok := t.lookup(ctx, key, cfg.Rule, iterations); ok {
			t.emitGenerate(ctx, cached, true, time.Since(start))
			return cached, nil
		}

		if t.locker != nil {
			unlock, err := t.locker.Lock(ctx, key, lockTTL)
			if err != nil {
				t.logger.Warn("signature lock failed, expanding anyway", "key", key, "err", err)
			} else {
				defer func() {
					if err := unlock(context.WithoutCancel(ctx)); err != nil {
						t.logger.Warn("signature unlock failed", "key", key, "err", err)
					}
				}()
				// Another holder may have stored it while we waited.
				if cached, ok := t.lookup(ctx, key, cfg.Rule, iterations); ok {
					t.emitGenerate(ctx, cached, true, time.Since(start))
					return cached, nil
				}
			}
		}
	}

	sig := domain.Signature{
		Rule:       cfg.Rule,
		Iterations: iterations,
		Text:       lsystem.Expand(cfg.Rule, iterations),
		Generated:  true,
	}
	t.logger.Debug("signature generated", "rule", cfg.Rule, "iterations", iterations, "length", len(sig.Text))

	if t.cache != nil {
		if err := t.cache.Put(ctx, sig); err != nil {
			t.logger.Warn("signature cache store failed", "key", key, "err", err)
		}
	}

	t.emitGenerate(ctx, sig, false, time.Since(start))
	return sig, nil
}

func (t *Tree) lookup(ctx context.Context, key, rule string, iterations int) (domain.Signature, bool) {
	cached, err := t.cache.Get(ctx, key)
	switch {
	case err == nil && cached.Matches(rule, iterations):
		t.logger.Debug("signature cache hit", "key", key)
		return cached, true
	case err != nil && !errors.Is(err, domain.ErrSignatureNotFound):
		t.logger.Warn("signature cache lookup failed", "key", key, "err", err)
	}
	return domain.Signature{}, false
}

// Draw interprets the signature for iterations onto s, anchored at (x, y).
// The signature is regenerated only when the cached one was produced for a
// different iteration count or rule. The surface transform is always reset
// to identity before Draw returns.
func (t *Tree) Draw(ctx context.Context, s ports.Surface, x, y, branchLength float64, iterations int) error {
	if s == nil {
		return domain.ErrNilSurface
	}

	cfg := t.config
	start := time.Now()

	regenerated := false
	if !t.signature.Matches(cfg.Rule, iterations) {
		sig, err := t.generate(ctx, cfg, iterations)
		if err != nil {
			s.SetTransformIdentity()
			return err
		}
		t.signature = sig
		regenerated = true
	}

	res, err := t.interpreter.Interpret(t.signature.Text, s, turtle.Params{
		X:            x,
		Y:            y,
		BranchLength: branchLength,
		Iterations:   iterations,
		Angle:        cfg.Angle,
		Noise:        cfg.Noise,
		Source:       t.source,
	})
	if err != nil {
		t.logger.Error("draw failed", "err", err)
	}

	if t.hooks.OnDraw != nil {
		t.hooks.OnDraw(ctx, &domain.DrawEvent{
			EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventDraw},
			Iterations:   iterations,
			BranchLength: branchLength,
			Stats:        res.Stats,
			Regenerated:  regenerated,
			Duration:     time.Since(start),
			Err:          err,
		})
	}
	return err
}

// Anchor returns the canonical drawing anchor of a surface: horizontal
// center, vertical bottom.
func Anchor(s ports.Surface) (x, y float64) {
	return s.Width() / 2, s.Height()
}

func (t *Tree) emitGenerate(ctx context.Context, sig domain.Signature, hit bool, d time.Duration) {
	if t.hooks.OnGenerate == nil {
		return
	}
	t.hooks.OnGenerate(ctx, &domain.GenerateEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventGenerate},
		Rule:       sig.Rule,
		Iterations: sig.Iterations,
		Length:     len(sig.Text),
		CacheHit:   hit,
		Duration:   d,
	})
}
