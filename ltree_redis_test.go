package ltree_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/adapters/redis"
	"github.com/aretw0/ltree/pkg/adapters/svg"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/preset"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent trees sharing a Redis cache and locker expand a signature once.
func TestTree_SharedRedisCacheExpandsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := redis.NewFromClient(client)
	locker := redis.NewLocker(client, redis.DefaultPrefix)

	var (
		mu     sync.Mutex
		misses int
	)
	hooks := domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			if !e.CacheHit {
				mu.Lock()
				misses++
				mu.Unlock()
			}
		},
	}

	const workers = 8
	sigs := make([]domain.Signature, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree := ltree.New(
				ltree.WithSignatureCache(cache),
				ltree.WithLocker(locker),
				ltree.WithLifecycleHooks(hooks),
			)
			sig, err := tree.Generate(context.Background(), 6)
			assert.NoError(t, err)
			sigs[i] = sig
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, misses)
	for _, sig := range sigs[1:] {
		assert.Equal(t, sigs[0], sig)
	}
}

func TestWithPreset(t *testing.T) {
	tree := ltree.New(ltree.WithPreset(mustPreset(t, "bush")))
	cfg := tree.Config()
	assert.Equal(t, "F[+X]F[-X]+X", cfg.Rule)
	assert.Equal(t, 22.5, cfg.Angle)
	assert.True(t, cfg.Noise)
}

func TestWithPreset_SeedIsDeterministic(t *testing.T) {
	p := mustPreset(t, "classic")
	p.Seed = 99
	ctx := context.Background()

	draw := func() []byte {
		tree := ltree.New(ltree.WithPreset(p))
		s := newSVG()
		require.NoError(t, tree.Draw(ctx, s, 320, 480, p.Length, 3))
		return s.Bytes()
	}
	assert.Equal(t, draw(), draw())
}

func mustPreset(t *testing.T, name string) preset.Preset {
	t.Helper()
	p, err := preset.Builtin().Get(name)
	require.NoError(t, err)
	return p
}

func newSVG() *svg.Surface {
	return svg.New(640, 480)
}
