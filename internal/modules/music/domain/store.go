package domain

import "math/rand"

// DefaultMaxPlaylistSize is the playlist buffer capacity used when no
// explicit bound is configured.
const DefaultMaxPlaylistSize = 100

// Store holds the two track collections of a session: the user-priority FIFO
// queue of individually requested tracks, and the capacity-bounded playlist
// buffer for bulk-queued playlists and albums.
//
// Store is not goroutine-safe; the owning Session serializes access.
type Store struct {
	queue           []*Track
	playlist        []*Track
	maxPlaylistSize int
}

// NewStore creates a new empty Store with the given playlist buffer bound.
// A non-positive bound falls back to DefaultMaxPlaylistSize.
func NewStore(maxPlaylistSize int) *Store {
	if maxPlaylistSize <= 0 {
		maxPlaylistSize = DefaultMaxPlaylistSize
	}
	return &Store{
		queue:           make([]*Track, 0),
		playlist:        make([]*Track, 0),
		maxPlaylistSize: maxPlaylistSize,
	}
}

// Add appends a track to the normal queue.
// Returns false only if the track is nil; there is no size bound.
func (s *Store) Add(track *Track) bool {
	if track == nil {
		return false
	}
	s.queue = append(s.queue, track)
	return true
}

// AddPlaylist replaces the playlist buffer wholesale with the given tracks,
// truncated to the configured bound. Prior playlist content is never merged.
func (s *Store) AddPlaylist(tracks []*Track) {
	n := len(tracks)
	if n > s.maxPlaylistSize {
		n = s.maxPlaylistSize
	}
	s.playlist = make([]*Track, n)
	copy(s.playlist, tracks[:n])
}

// Shift removes and returns the first track of the normal queue, or nil if empty.
func (s *Store) Shift() *Track {
	if len(s.queue) == 0 {
		return nil
	}
	track := s.queue[0]
	s.queue = s.queue[1:]
	return track
}

// ShiftPlaylist removes and returns the first track of the playlist buffer,
// or nil if empty.
func (s *Store) ShiftPlaylist() *Track {
	if len(s.playlist) == 0 {
		return nil
	}
	track := s.playlist[0]
	s.playlist = s.playlist[1:]
	return track
}

// Clear empties the normal queue.
func (s *Store) Clear() {
	s.queue = make([]*Track, 0)
}

// ClearPlaylist empties the playlist buffer.
func (s *Store) ClearPlaylist() {
	s.playlist = make([]*Track, 0)
}

// Shuffle randomly permutes the normal queue in place.
func (s *Store) Shuffle() {
	rand.Shuffle(len(s.queue), func(i, j int) {
		s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
	})
}

// ShufflePlaylist randomly permutes the playlist buffer in place.
// No-op when the buffer is empty.
func (s *Store) ShufflePlaylist() {
	if len(s.playlist) == 0 {
		return
	}
	rand.Shuffle(len(s.playlist), func(i, j int) {
		s.playlist[i], s.playlist[j] = s.playlist[j], s.playlist[i]
	})
}

// HasPlaylist returns true if the playlist buffer holds at least one track.
func (s *Store) HasPlaylist() bool {
	return len(s.playlist) > 0
}

// QueueSize returns the number of tracks in the normal queue.
func (s *Store) QueueSize() int {
	return len(s.queue)
}

// PlaylistSize returns the number of tracks in the playlist buffer.
func (s *Store) PlaylistSize() int {
	return len(s.playlist)
}

// Upcoming returns up to n tracks in playback order: the normal queue first,
// then the playlist buffer. The returned slice is a copy.
func (s *Store) Upcoming(n int) []*Track {
	result := make([]*Track, 0, n)
	for _, t := range s.queue {
		if len(result) == n {
			return result
		}
		result = append(result, t)
	}
	for _, t := range s.playlist {
		if len(result) == n {
			return result
		}
		result = append(result, t)
	}
	return result
}
