package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// searchPrefix marks a query as a text search rather than a direct URI.
const searchPrefix = "ytsearch:"

// DefaultResolveTimeout bounds each individual loader call.
const DefaultResolveTimeout = 5 * time.Second

// TrackResolverService turns a raw URL into an ordered list of playable
// tracks. Catalog-provider URLs (Spotify, Tidal, ...) are first translated
// into qualified name searches; anything else is handed to the audio loader
// as-is.
type TrackResolverService struct {
	catalogs ports.CatalogRegistry
	loader   ports.TrackLoader
	timeout  time.Duration
}

// NewTrackResolverService creates a new TrackResolverService.
// A non-positive timeout falls back to DefaultResolveTimeout.
func NewTrackResolverService(
	catalogs ports.CatalogRegistry,
	loader ports.TrackLoader,
	timeout time.Duration,
) *TrackResolverService {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	return &TrackResolverService{
		catalogs: catalogs,
		loader:   loader,
		timeout:  timeout,
	}
}

// Resolve resolves rawURL into tracks. The returned slice is non-empty
// exactly when the error is nil.
//
// Catalog-derived queries are always resolved as an ordered batch of
// single-track searches: the audio loader has no concept of the catalog's
// playlist grouping, so asPlaylist is forced off for them.
func (s *TrackResolverService) Resolve(
	ctx context.Context,
	rawURL string,
	asPlaylist bool,
) ([]*domain.Track, error) {
	if rawURL == "" {
		return nil, ErrInvalidURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrInvalidURL
	}

	var queries []string
	if resolver := s.catalogs.ForHost(parsed.Host); resolver != nil {
		if !resolver.Usable() {
			return nil, fmt.Errorf("%s is currently unavailable", resolver.Name())
		}

		names, err := resolver.QualifiedTrackNames(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			queries = append(queries, searchPrefix+name)
		}
		asPlaylist = false
	} else {
		queries = append(queries, rawURL)
	}

	if len(queries) == 0 {
		return nil, ErrNotFound
	}

	// First failure wins: abort without attempting subsequent queries so the
	// store is either fed the whole batch or nothing.
	var tracks []*domain.Track
	for _, query := range queries {
		loaded, err := s.loadQuery(ctx, query, asPlaylist)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, loaded...)
	}

	if len(tracks) == 0 {
		return nil, ErrNothingResolved
	}
	return tracks, nil
}

// loadQuery runs a single loader call with a bounded timeout and interprets
// the result union.
func (s *TrackResolverService) loadQuery(
	ctx context.Context,
	query string,
	asPlaylist bool,
) ([]*domain.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.loader.LoadTracks(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("audio loader timed out", "query", query)
			return nil, ErrTimedOut
		}
		return nil, err
	}

	switch result.Type {
	case ports.LoadTypeTrack:
		if len(result.Tracks) == 0 {
			return nil, s.notFoundError(asPlaylist)
		}
		return result.Tracks[:1], nil

	case ports.LoadTypePlaylist:
		if len(result.Tracks) == 0 {
			return nil, s.notFoundError(asPlaylist)
		}
		if asPlaylist {
			return result.Tracks, nil
		}
		// Single-track request against a playlist URL: take the provider's
		// selected track when present, otherwise the first.
		index := result.SelectedIndex
		if index < 0 || index >= len(result.Tracks) {
			index = 0
		}
		return result.Tracks[index : index+1], nil

	case ports.LoadTypeSearch:
		if len(result.Tracks) == 0 {
			return nil, s.notFoundError(asPlaylist)
		}
		return result.Tracks[:1], nil

	case ports.LoadTypeEmpty:
		return nil, s.notFoundError(asPlaylist)

	case ports.LoadTypeError:
		return nil, s.loadError(asPlaylist, result.ErrorMessage)

	default:
		return nil, s.notFoundError(asPlaylist)
	}
}

func (s *TrackResolverService) notFoundError(asPlaylist bool) error {
	if asPlaylist {
		return ErrPlaylistNotFound
	}
	return ErrSongNotFound
}

func (s *TrackResolverService) loadError(asPlaylist bool, message string) error {
	kind := "song"
	if asPlaylist {
		kind = "playlist"
	}
	if message == "" {
		message = "unknown error"
	}
	return fmt.Errorf("could not load %s: %s", kind, message)
}
