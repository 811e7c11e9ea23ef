package ltree_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/adapters/memory"
	"github.com/aretw0/ltree/pkg/adapters/recording"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generationSpy counts OnGenerate events.
type generationSpy struct {
	events []domain.GenerateEvent
}

func (s *generationSpy) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			s.events = append(s.events, *e)
		},
	}
}

func TestTree_Defaults(t *testing.T) {
	tree := ltree.New()
	cfg := tree.Config()
	assert.Equal(t, "F[+X][-X]", cfg.Rule)
	assert.Equal(t, 20.0, cfg.Angle)
	assert.False(t, cfg.Noise)
	assert.False(t, tree.Signature().Generated, "nothing generated yet")
}

func TestTree_Generate(t *testing.T) {
	ctx := context.Background()
	tree := ltree.New()

	sig, err := tree.Generate(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "F[+X][-X]", sig.Text)
	assert.Equal(t, 0, sig.Iterations)
	assert.True(t, sig.Generated)

	sig, err = tree.Generate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "F[+F[+X][-X]][-F[+X][-X]]", sig.Text)
	assert.Equal(t, 1, tree.Signature().Iterations)
	assert.Equal(t, sig, tree.Signature())
}

func TestTree_GenerateRejectsBadIterations(t *testing.T) {
	ctx := context.Background()
	tree := ltree.New(ltree.WithMaxIterations(6))

	_, err := tree.Generate(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidIterations)

	_, err = tree.Generate(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrIterationLimit)
	assert.False(t, tree.Signature().Generated, "a failed generation leaves the cache untouched")

	bounded := ltree.New(ltree.WithMaxLength(100))
	_, err = bounded.Generate(ctx, 2)
	require.NoError(t, err) // 9 + 8*(2+4) = 57 symbols
	_, err = bounded.Generate(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrIterationLimit)
	assert.Equal(t, 2, bounded.Signature().Iterations)
}

func TestTree_DrawReusesSignature(t *testing.T) {
	ctx := context.Background()
	spy := &generationSpy{}
	tree := ltree.New(ltree.WithLifecycleHooks(spy.hooks()))
	rec := recording.NewRecorder(640, 480)

	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 3))
	first := tree.Signature()
	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 3))

	assert.Len(t, spy.events, 1, "same iteration count must not regenerate")
	assert.Equal(t, first, tree.Signature())
}

func TestTree_DrawInvalidatesOnIterationChange(t *testing.T) {
	ctx := context.Background()
	spy := &generationSpy{}
	tree := ltree.New(ltree.WithLifecycleHooks(spy.hooks()))
	rec := recording.NewRecorder(640, 480)

	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 2))
	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 4))

	require.Len(t, spy.events, 2)
	assert.Equal(t, 4, tree.Signature().Iterations)
	assert.Equal(t, len(tree.Signature().Text), spy.events[1].Length)

	_, err := tree.Generate(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 0))
	assert.Len(t, spy.events, 3, "draw after explicit generate reuses it")
}

func TestTree_DrawRegeneratesAfterRuleChange(t *testing.T) {
	ctx := context.Background()
	tree := ltree.New()
	rec := recording.NewRecorder(640, 480)

	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 1))
	tree.SetRule("F[-X]")
	require.NoError(t, tree.Draw(ctx, rec, 320, 480, 100, 1))

	assert.Equal(t, "F[-F[-X]]", tree.Signature().Text)
}

func TestTree_DrawDeterministicWithoutNoise(t *testing.T) {
	ctx := context.Background()
	tree := ltree.New(ltree.WithSeed(7))

	first := recording.NewRecorder(640, 480)
	second := recording.NewRecorder(640, 480)
	require.NoError(t, tree.Draw(ctx, first, 320, 480, 100, 3))
	require.NoError(t, tree.Draw(ctx, second, 320, 480, 100, 3))

	assert.Equal(t, first.Commands(), second.Commands())
}

func TestTree_DrawWithNoise(t *testing.T) {
	ctx := context.Background()
	tree := ltree.New(ltree.WithSeed(42), ltree.WithAngle(30))
	tree.SetNoise(true)

	first := recording.NewRecorder(640, 480)
	second := recording.NewRecorder(640, 480)
	require.NoError(t, tree.Draw(ctx, first, 320, 480, 100, 3))
	require.NoError(t, tree.Draw(ctx, second, 320, 480, 100, 3))

	// Structure is reproducible, exact angles are not.
	require.Equal(t, first.Len(), second.Len())
	assert.NotEqual(t, first.Commands(), second.Commands())

	for _, c := range first.Commands()[2:] {
		switch c.Op {
		case recording.OpRotate:
			deg := math.Abs(c.Args[0]) * 180 / math.Pi
			assert.GreaterOrEqual(t, deg, 25.0)
			assert.LessOrEqual(t, deg, 35.0)
		case recording.OpFillStyle:
			assert.GreaterOrEqual(t, c.Color.G, uint8(100))
			assert.LessOrEqual(t, c.Color.G, uint8(200))
		}
	}
}

func TestTree_DrawUnbalancedRule(t *testing.T) {
	tree := ltree.New(ltree.WithRule("F[+X[-X"))
	rec := recording.NewRecorder(640, 480)

	require.NoError(t, tree.Draw(context.Background(), rec, 320, 480, 80, 2))
	cmds := rec.Commands()
	assert.Equal(t, recording.OpSetTransformIdentity, cmds[len(cmds)-1].Op)
	assert.Positive(t, tree.Stats().UnclosedOpen)
}

func TestTree_DrawErrors(t *testing.T) {
	ctx := context.Background()
	tree := ltree.New(ltree.WithMaxIterations(2))

	assert.ErrorIs(t, tree.Draw(ctx, nil, 0, 0, 100, 1), domain.ErrNilSurface)

	rec := recording.NewRecorder(640, 480)
	err := tree.Draw(ctx, rec, 320, 480, 100, 9)
	assert.ErrorIs(t, err, domain.ErrIterationLimit)
	assert.Equal(t, []recording.Command{{Op: recording.OpSetTransformIdentity}}, rec.Commands())
}

func TestTree_SignatureCache(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewStore()

	warm := ltree.New(ltree.WithSignatureCache(cache))
	_, err := warm.Generate(ctx, 3)
	require.NoError(t, err)

	spy := &generationSpy{}
	cold := ltree.New(ltree.WithSignatureCache(cache), ltree.WithLifecycleHooks(spy.hooks()))
	sig, err := cold.Generate(ctx, 3)
	require.NoError(t, err)

	require.Len(t, spy.events, 1)
	assert.True(t, spy.events[0].CacheHit)
	assert.Equal(t, warm.Signature(), sig)
}

func TestAnchor(t *testing.T) {
	x, y := ltree.Anchor(recording.NewRecorder(640, 480))
	assert.Equal(t, 320.0, x)
	assert.Equal(t, 480.0, y)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, ltree.Version)
}
