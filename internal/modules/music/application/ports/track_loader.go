package ports

import (
	"context"

	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// LoadType represents the shape of a load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// LoadResult represents the outcome of loading a single query.
type LoadResult struct {
	Type   LoadType
	Tracks []*domain.Track

	// SelectedIndex is the provider's selected track within a playlist
	// result, or -1 if none.
	SelectedIndex int

	// ErrorMessage carries the backend's message for LoadTypeError results.
	ErrorMessage string
}

// TrackLoader resolves a playable URI or a free-text search query into
// playable tracks.
type TrackLoader interface {
	// LoadTracks loads tracks for the given query.
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}
