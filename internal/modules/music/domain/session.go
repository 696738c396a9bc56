package domain

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Session is the per-guild playback state: the track store, the single
// current-playback slot, and the channel to send playback notifications to.
//
// All methods are safe for concurrent use. The generation counter is bumped
// on Reset so that work started against an earlier incarnation of the
// session (e.g. a late end-of-track notification racing a destroy) can be
// detected and dropped.
//
// Individual methods are atomic under mu, but a scheduler transition spans
// several of them (pull a track, start the driver, fill the current slot).
// Callers serialize such compound transitions with LockOps/UnlockOps so a
// skip and an end-of-track advance can never interleave mid-sequence.
type Session struct {
	mu         sync.Mutex
	guildID    snowflake.ID
	store      *Store
	current    *Track
	notifyChan snowflake.ID
	generation uint64

	// opMu is held across compound state transitions, never nested inside mu.
	opMu sync.Mutex
}

// NewSession creates a new idle Session for the given guild.
func NewSession(guildID snowflake.ID, maxPlaylistSize int) *Session {
	return &Session{
		guildID: guildID,
		store:   NewStore(maxPlaylistSize),
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() snowflake.ID {
	return s.guildID
}

// LockOps acquires the session's operation lock. Hold it for the duration of
// any compound transition that reads and then mutates playback state.
func (s *Session) LockOps() {
	s.opMu.Lock()
}

// UnlockOps releases the operation lock.
func (s *Session) UnlockOps() {
	s.opMu.Unlock()
}

// Current returns the track in the current-playback slot, or nil when idle.
func (s *Session) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrent places a track into the current-playback slot.
func (s *Session) SetCurrent(track *Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = track
}

// ClearCurrent empties the current-playback slot.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Generation returns the session's current generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// NotificationChannelID returns the last known notification target, or zero.
func (s *Session) NotificationChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifyChan
}

// SetNotificationChannelID updates the notification target.
func (s *Session) SetNotificationChannelID(channelID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyChan = channelID
}

// Enqueue appends a track to the normal queue.
func (s *Session) Enqueue(track *Track) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Add(track)
}

// EnqueuePlaylist replaces the playlist buffer with the given tracks.
func (s *Session) EnqueuePlaylist(tracks []*Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.AddPlaylist(tracks)
}

// PullNext removes and returns the next track per the precedence rule: the
// normal queue always wins, and the playlist buffer is only drained once the
// normal queue is empty. Unless keepPlaylist is set, a buffered playlist is
// discarded whenever a track is pulled from a non-empty normal queue.
func (s *Session) PullNext(keepPlaylist bool) *Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.QueueSize() > 0 || !s.store.HasPlaylist() {
		if s.store.HasPlaylist() && !keepPlaylist {
			s.store.ClearPlaylist()
		}
		return s.store.Shift()
	}
	return s.store.ShiftPlaylist()
}

// ShuffleQueue randomly permutes the normal queue.
func (s *Session) ShuffleQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Shuffle()
}

// QueueSize returns the normal queue length.
func (s *Session) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.QueueSize()
}

// PlaylistSize returns the playlist buffer length.
func (s *Session) PlaylistSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.PlaylistSize()
}

// HasPlaylist returns true if the playlist buffer is non-empty.
func (s *Session) HasPlaylist() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.HasPlaylist()
}

// Upcoming returns up to n tracks in playback order.
func (s *Session) Upcoming(n int) []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Upcoming(n)
}

// Reset clears the current slot, both track collections, and the
// notification target, and bumps the generation. Safe to call on an already
// idle session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.notifyChan = 0
	s.store.Clear()
	s.store.ClearPlaylist()
	s.generation++
}
