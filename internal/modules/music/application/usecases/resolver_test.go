package usecases

import (
	"errors"
	"testing"
	"time"

	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

func newTestResolver(
	loader *mockTrackLoader,
	catalogs ...ports.CatalogResolver,
) *TrackResolverService {
	return NewTrackResolverService(
		&mockCatalogRegistry{resolvers: catalogs},
		loader,
		DefaultResolveTimeout,
	)
}

func TestResolve_InvalidURL(t *testing.T) {
	loader := &mockTrackLoader{}
	service := newTestResolver(loader)

	tests := []struct {
		name   string
		rawURL string
	}{
		{"empty", ""},
		{"no host", "not a url"},
		{"schemeless path", "/just/a/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Resolve(t.Context(), tt.rawURL, false)
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
		})
	}

	// Input errors must not reach the loader
	if len(loader.queries) != 0 {
		t.Errorf("expected no loader calls for invalid input, got %d", len(loader.queries))
	}
}

func TestResolve_DirectURL(t *testing.T) {
	track := mockTrack("direct")
	loader := &mockTrackLoader{
		results: map[string]*ports.LoadResult{
			"https://example.com/track.mp3": {
				Type:          ports.LoadTypeTrack,
				Tracks:        []*domain.Track{track},
				SelectedIndex: -1,
			},
		},
	}
	service := newTestResolver(loader)

	tracks, err := service.Resolve(t.Context(), "https://example.com/track.mp3", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 || tracks[0] != track {
		t.Errorf("expected the single direct track, got %v", tracks)
	}
	if len(loader.queries) != 1 || loader.queries[0] != "https://example.com/track.mp3" {
		t.Errorf("expected raw URL passed through as one query, got %v", loader.queries)
	}
}

func TestResolve_CatalogURL_SearchQueries(t *testing.T) {
	catalog := &mockCatalogResolver{
		name:   "spotify",
		marker: "spotify",
		usable: true,
		names:  []string{"Artist A - Song A", "Artist B - Song B"},
	}
	loader := &mockTrackLoader{
		results: map[string]*ports.LoadResult{
			"ytsearch:Artist A - Song A": {
				Type:          ports.LoadTypeSearch,
				Tracks:        mockTracks(3),
				SelectedIndex: -1,
			},
			"ytsearch:Artist B - Song B": {
				Type:          ports.LoadTypeSearch,
				Tracks:        mockTracks(2),
				SelectedIndex: -1,
			},
		},
	}
	service := newTestResolver(loader, catalog)

	// asPlaylist is requested but must be forced off for catalog queries
	tracks, err := service.Resolve(
		t.Context(),
		"https://open.spotify.com/album/abc123",
		true,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One track per qualified name: first search hit only, in query order
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if len(loader.queries) != 2 {
		t.Fatalf("expected 2 loader calls, got %d", len(loader.queries))
	}
	if loader.queries[0] != "ytsearch:Artist A - Song A" {
		t.Errorf("expected prefixed search query, got %q", loader.queries[0])
	}
}

func TestResolve_CatalogUnusable(t *testing.T) {
	catalog := &mockCatalogResolver{
		name:   "tidal",
		marker: "tidal",
		usable: false,
	}
	loader := &mockTrackLoader{}
	service := newTestResolver(loader, catalog)

	_, err := service.Resolve(t.Context(), "https://tidal.com/track/123", false)
	if err == nil {
		t.Fatal("expected error for unusable provider")
	}
	// Fail fast: no network call attempted
	if len(loader.queries) != 0 {
		t.Errorf("expected no loader calls, got %d", len(loader.queries))
	}
}

func TestResolve_CatalogError_Propagates(t *testing.T) {
	backendErr := errors.New("rate limited")
	catalog := &mockCatalogResolver{
		name:   "spotify",
		marker: "spotify",
		usable: true,
		err:    backendErr,
	}
	service := newTestResolver(&mockTrackLoader{}, catalog)

	_, err := service.Resolve(t.Context(), "https://open.spotify.com/track/abc", false)
	if !errors.Is(err, backendErr) {
		t.Errorf("expected backend error to propagate, got %v", err)
	}
}

func TestResolve_CatalogEmpty_NotFound(t *testing.T) {
	catalog := &mockCatalogResolver{
		name:   "spotify",
		marker: "spotify",
		usable: true,
		names:  nil,
	}
	service := newTestResolver(&mockTrackLoader{}, catalog)

	_, err := service.Resolve(t.Context(), "https://open.spotify.com/track/abc", false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_PlaylistURL(t *testing.T) {
	playlist := mockTracks(5)
	loader := &mockTrackLoader{
		results: map[string]*ports.LoadResult{
			"https://example.com/playlist/1": {
				Type:          ports.LoadTypePlaylist,
				Tracks:        playlist,
				SelectedIndex: -1,
			},
		},
	}
	service := newTestResolver(loader)

	t.Run("as playlist", func(t *testing.T) {
		tracks, err := service.Resolve(t.Context(), "https://example.com/playlist/1", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 5 {
			t.Errorf("expected all 5 playlist tracks, got %d", len(tracks))
		}
	})

	t.Run("as single track", func(t *testing.T) {
		tracks, err := service.Resolve(t.Context(), "https://example.com/playlist/1", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 1 || tracks[0] != playlist[0] {
			t.Errorf("expected only the first playlist track, got %v", tracks)
		}
	})
}

func TestResolve_PlaylistSelectedTrack(t *testing.T) {
	playlist := mockTracks(5)
	loader := &mockTrackLoader{
		results: map[string]*ports.LoadResult{
			"https://example.com/watch?list=x": {
				Type:          ports.LoadTypePlaylist,
				Tracks:        playlist,
				SelectedIndex: 2,
			},
		},
	}
	service := newTestResolver(loader)

	tracks, err := service.Resolve(t.Context(), "https://example.com/watch?list=x", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 || tracks[0] != playlist[2] {
		t.Errorf("expected the provider-selected track, got %v", tracks)
	}
}

func TestResolve_NoMatches(t *testing.T) {
	loader := &mockTrackLoader{} // every query resolves to LoadTypeEmpty

	service := newTestResolver(loader)

	_, err := service.Resolve(t.Context(), "https://example.com/missing", false)
	if !errors.Is(err, ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}

	_, err = service.Resolve(t.Context(), "https://example.com/playlist/missing", true)
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestResolve_LoadError(t *testing.T) {
	loader := &mockTrackLoader{
		results: map[string]*ports.LoadResult{
			"https://example.com/broken": {
				Type:         ports.LoadTypeError,
				ErrorMessage: "connection refused",
			},
		},
	}
	service := newTestResolver(loader)

	_, err := service.Resolve(t.Context(), "https://example.com/broken", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "could not load song: connection refused" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestResolve_FirstFailureWins(t *testing.T) {
	catalog := &mockCatalogResolver{
		name:   "spotify",
		marker: "spotify",
		usable: true,
		names:  []string{"A - 1", "B - 2", "C - 3"},
	}
	loader := &mockTrackLoader{
		results: map[string]*ports.LoadResult{
			"ytsearch:A - 1": {
				Type:          ports.LoadTypeSearch,
				Tracks:        mockTracks(1),
				SelectedIndex: -1,
			},
			// ytsearch:B - 2 falls through to LoadTypeEmpty
		},
	}
	service := newTestResolver(loader, catalog)

	_, err := service.Resolve(t.Context(), "https://open.spotify.com/playlist/x", false)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}

	// The failing second query must abort the batch before the third
	if len(loader.queries) != 2 {
		t.Errorf("expected 2 loader calls before aborting, got %d", len(loader.queries))
	}
}

func TestResolve_Timeout(t *testing.T) {
	loader := &mockTrackLoader{delay: 200 * time.Millisecond}
	service := NewTrackResolverService(
		&mockCatalogRegistry{},
		loader,
		10*time.Millisecond,
	)

	_, err := service.Resolve(t.Context(), "https://example.com/slow", false)
	if !errors.Is(err, ErrTimedOut) {
		t.Errorf("expected ErrTimedOut, got %v", err)
	}
}
