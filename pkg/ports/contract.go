package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSignatureCacheContract runs a suite of tests to verify that a SignatureCache
// implementation adheres to the defined interface contract.
func RunSignatureCacheContract(t *testing.T, cache SignatureCache) {
	ctx := context.Background()
	rule := "F[+X][-X]" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		sig := domain.Signature{Rule: rule, Iterations: 1, Text: "F[+F][-F]", Generated: true}

		err := cache.Put(ctx, sig)
		require.NoError(t, err, "Put should not return error")

		loaded, err := cache.Get(ctx, sig.Key())
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, sig, loaded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, domain.CacheKey("missing-"+rule, 3))
		assert.ErrorIs(t, err, domain.ErrSignatureNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		first := domain.Signature{Rule: rule, Iterations: 2, Text: "first", Generated: true}
		second := domain.Signature{Rule: rule, Iterations: 2, Text: "second", Generated: true}
		require.NoError(t, cache.Put(ctx, first))
		require.NoError(t, cache.Put(ctx, second))

		loaded, err := cache.Get(ctx, first.Key())
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Text)
	})

	t.Run("Delete", func(t *testing.T) {
		sig := domain.Signature{Rule: rule, Iterations: 4, Text: "F", Generated: true}
		require.NoError(t, cache.Put(ctx, sig))

		err := cache.Delete(ctx, sig.Key())
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, sig.Key())
		assert.ErrorIs(t, err, domain.ErrSignatureNotFound, "Get after Delete should return ErrSignatureNotFound")

		assert.NoError(t, cache.Delete(ctx, sig.Key()), "Deleting twice should be a no-op")
	})

	t.Run("Empty Text", func(t *testing.T) {
		sig := domain.Signature{Rule: "", Iterations: 0, Text: "", Generated: true}
		require.NoError(t, cache.Put(ctx, sig))

		loaded, err := cache.Get(ctx, sig.Key())
		require.NoError(t, err)
		assert.True(t, loaded.Generated)
		assert.Empty(t, loaded.Text)
	})
}
