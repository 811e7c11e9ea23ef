package ports

import (
	"context"

	"github.com/aretw0/ltree/pkg/domain"
)

// SignatureCache stores expanded signatures so that expensive expansions can
// be shared between trees, processes or replicas.
type SignatureCache interface {
	// Get retrieves a signature by key (see domain.CacheKey).
	// Returns domain.ErrSignatureNotFound if the key is absent.
	Get(ctx context.Context, key string) (domain.Signature, error)

	// Put stores a signature under its own key.
	Put(ctx context.Context, sig domain.Signature) error

	// Delete removes the signature stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
