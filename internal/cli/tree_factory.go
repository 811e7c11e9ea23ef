package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/ltree"
	"github.com/aretw0/ltree/pkg/adapters/memory"
	"github.com/aretw0/ltree/pkg/adapters/redis"
	"github.com/aretw0/ltree/pkg/adapters/sqlite"
	"github.com/aretw0/ltree/pkg/observability"
	"github.com/aretw0/ltree/pkg/ports"
	"github.com/aretw0/ltree/pkg/preset"
	"github.com/aretw0/ltree/pkg/render"
)

// Cache is an opened signature cache together with its optional lock and
// the function releasing its resources.
type Cache struct {
	Kind   string
	Store  ports.SignatureCache
	Locker ports.Locker
	close  func() error
}

// Close releases the cache backend.
func (c *Cache) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	return c.close()
}

// OpenCache opens the cache named by spec:
//   - "" or "none": no cache
//   - "memory": in-process map
//   - "redis://...": shared Redis cache with stampede lock
//   - "sqlite:path": SQLite file
func OpenCache(ctx context.Context, spec string, ttl time.Duration) (*Cache, error) {
	switch {
	case spec == "" || spec == "none":
		return nil, nil
	case spec == "memory":
		return &Cache{Kind: "memory", Store: memory.NewStore()}, nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		store, err := redis.NewFromURL(spec, redis.WithTTL(ttl))
		if err != nil {
			return nil, err
		}
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return &Cache{
			Kind:   "redis",
			Store:  store,
			Locker: redis.NewLocker(store.Client(), redis.DefaultPrefix),
			close:  store.Close,
		}, nil
	case strings.HasPrefix(spec, "sqlite:"):
		path := strings.TrimPrefix(spec, "sqlite:")
		if path == "" {
			return nil, errors.New("sqlite cache requires a path, e.g. sqlite:ltree.db")
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return &Cache{Kind: "sqlite", Store: store, close: store.Close}, nil
	default:
		return nil, fmt.Errorf("unknown cache %q (want memory, redis://..., or sqlite:path)", spec)
	}
}

// DefaultMaxLength caps expanded signatures when Options.MaxLength is zero.
const DefaultMaxLength = 1 << 22

// limitOptions translates the CLI limits and cache into tree options.
// A negative MaxLength disables the length cap.
func limitOptions(opts Options, cache *Cache) []ltree.Option {
	var treeOpts []ltree.Option
	if opts.MaxIterations > 0 {
		treeOpts = append(treeOpts, ltree.WithMaxIterations(opts.MaxIterations))
	}
	switch maxLength := opts.MaxLength; {
	case maxLength == 0:
		treeOpts = append(treeOpts, ltree.WithMaxLength(DefaultMaxLength))
	case maxLength > 0:
		treeOpts = append(treeOpts, ltree.WithMaxLength(maxLength))
	}
	if cache != nil {
		treeOpts = append(treeOpts, ltree.WithSignatureCache(cache.Store))
		if cache.Locker != nil {
			treeOpts = append(treeOpts, ltree.WithLocker(cache.Locker))
		}
	}
	return treeOpts
}

// loadPresets reads the preset file, or returns the builtin set.
func loadPresets(path string) (*preset.Set, error) {
	if path == "" {
		return preset.Builtin(), nil
	}
	set, err := preset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading presets: %w", err)
	}
	return set, nil
}

// createRenderer initializes a Renderer with standard CLI conventions.
func createRenderer(ctx context.Context, opts Options, logger *slog.Logger) (*render.Renderer, *Cache, error) {
	set, err := loadPresets(opts.PresetsPath)
	if err != nil {
		return nil, nil, err
	}
	cache, err := OpenCache(ctx, opts.Cache, opts.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening cache: %w", err)
	}
	if cache != nil {
		logger.Debug("Signature cache enabled", "kind", cache.Kind)
	}
	treeOpts := []ltree.Option{ltree.WithLogger(logger)}
	if opts.Debug {
		treeOpts = append(treeOpts, ltree.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	treeOpts = append(treeOpts, limitOptions(opts, cache)...)
	return render.New(set, treeOpts...), cache, nil
}
