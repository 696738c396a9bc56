package usecases

import "errors"

// Resolution and scheduling errors surfaced to the command layer.
var (
	// ErrInvalidURL is returned when the input URL is empty or has no host.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrNotFound is returned when a catalog lookup produced no queries.
	ErrNotFound = errors.New("not found")

	// ErrTimedOut is returned when the audio loader did not answer in time.
	ErrTimedOut = errors.New("timed out")

	// ErrSongNotFound is returned when a single-track query matched nothing.
	ErrSongNotFound = errors.New("song not found")

	// ErrPlaylistNotFound is returned when a playlist query matched nothing.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNothingResolved is returned when resolution produced zero tracks
	// without a more specific failure.
	ErrNothingResolved = errors.New("no tracks were resolved")

	// ErrNoSession is returned when an operation targets a guild without an
	// active playback session.
	ErrNoSession = errors.New("nothing is queued for this server")
)
