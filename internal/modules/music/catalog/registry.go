package catalog

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
)

// resolutionCacheSize bounds the url -> qualified-names cache.
const resolutionCacheSize = 256

// Compile-time interface check.
var _ ports.CatalogRegistry = (*Registry)(nil)

// Registry selects a catalog resolver by URL host and caches successful
// resolutions so repeat requests for the same link skip the catalog round
// trip.
type Registry struct {
	resolvers []ports.CatalogResolver
	cache     *lru.Cache[string, []string]
}

// NewRegistry creates a Registry over the given resolvers. Resolver order is
// significant: the first match by host wins.
func NewRegistry(resolvers ...ports.CatalogResolver) *Registry {
	// lru.New only fails on a non-positive size
	cache, _ := lru.New[string, []string](resolutionCacheSize)
	return &Registry{
		resolvers: resolvers,
		cache:     cache,
	}
}

// ForHost returns the resolver responsible for the given host, wrapped with
// the registry's resolution cache, or nil if no provider matches.
func (r *Registry) ForHost(host string) ports.CatalogResolver {
	for _, resolver := range r.resolvers {
		if resolver.Matches(host) {
			return &cachedResolver{inner: resolver, cache: r.cache}
		}
	}
	return nil
}

// cachedResolver caches successful QualifiedTrackNames calls by URL.
// The cache is bypassed while the provider is unusable so a recovered
// provider is exercised again.
type cachedResolver struct {
	inner ports.CatalogResolver
	cache *lru.Cache[string, []string]
}

func (c *cachedResolver) Name() string { return c.inner.Name() }

func (c *cachedResolver) Matches(host string) bool { return c.inner.Matches(host) }

func (c *cachedResolver) Usable() bool { return c.inner.Usable() }

func (c *cachedResolver) QualifiedTrackNames(
	ctx context.Context,
	rawURL string,
) ([]string, error) {
	if c.inner.Usable() {
		if names, ok := c.cache.Get(rawURL); ok {
			slog.Debug("catalog cache hit", "provider", c.inner.Name(), "url", rawURL)
			return names, nil
		}
	}

	names, err := c.inner.QualifiedTrackNames(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	c.cache.Add(rawURL, names)
	return names, nil
}
