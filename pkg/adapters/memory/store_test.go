package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/ltree/pkg/adapters/memory"
	"github.com/aretw0/ltree/pkg/domain"
	"github.com/aretw0/ltree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSignatureCacheContract(t, memory.NewStore())
}

func TestMemoryStore_Capacity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithCapacity(2))

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Put(ctx, domain.Signature{Rule: "FX", Iterations: i, Text: "F", Generated: true}))
	}

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, domain.CacheKey("FX", 0))
	assert.ErrorIs(t, err, domain.ErrSignatureNotFound, "oldest entry is evicted")
	_, err = store.Get(ctx, domain.CacheKey("FX", 2))
	assert.NoError(t, err)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithCapacity(8))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sig := domain.Signature{Rule: "F[+X]", Iterations: i, Text: "F", Generated: true}
			_ = store.Put(ctx, sig)
			_, _ = store.Get(ctx, sig.Key())
			_ = store.Delete(ctx, sig.Key())
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, store.Len(), 8)
}
