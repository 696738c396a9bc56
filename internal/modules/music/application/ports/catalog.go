package ports

import (
	"context"
)

// CatalogResolver translates a streaming-service catalog link into qualified
// "artist - title" name strings suitable for a text search. Catalog providers
// are metadata-only; they never yield playable audio themselves.
type CatalogResolver interface {
	// Name returns the provider name, e.g. "spotify".
	Name() string

	// Matches reports whether the given URL host belongs to this provider.
	Matches(host string) bool

	// QualifiedTrackNames resolves the catalog entity behind the URL into an
	// ordered list of "artist - title" strings.
	QualifiedTrackNames(ctx context.Context, rawURL string) ([]string, error)

	// Usable reports whether the provider's backend credential is currently
	// valid. An unusable provider fails resolutions fast.
	Usable() bool
}

// CatalogRegistry selects a CatalogResolver by URL host.
type CatalogRegistry interface {
	// ForHost returns the resolver responsible for the given host, or nil if
	// no provider matches.
	ForHost(host string) CatalogResolver
}
