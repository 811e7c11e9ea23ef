package memory

import (
	"context"
	"sync"

	"github.com/aretw0/ltree/pkg/domain"
)

// Store implements ports.SignatureCache in memory.
// Safe for concurrent use.
type Store struct {
	data     map[string]domain.Signature
	capacity int
	order    []string
	mu       sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity bounds the number of cached signatures. When full, the oldest
// entry is evicted. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(s *Store) {
		s.capacity = n
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]domain.Signature),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a signature from memory.
func (s *Store) Get(ctx context.Context, key string) (domain.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.data[key]
	if !ok {
		return domain.Signature{}, domain.ErrSignatureNotFound
	}
	return sig, nil
}

// Put stores the signature, evicting the oldest entry if the store is full.
func (s *Store) Put(ctx context.Context, sig domain.Signature) error {
	key := sig.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		s.order = append(s.order, key)
	}
	s.data[key] = sig

	for s.capacity > 0 && len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.data, oldest)
	}
	return nil
}

// Delete removes the signature.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of cached signatures.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
