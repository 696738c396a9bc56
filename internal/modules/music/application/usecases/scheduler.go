package usecases

import (
	"context"
	"log/slog"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// playlistMarkers are the URL path/query fragments that classify a request
// as playlist-worthy.
var playlistMarkers = []string{"/playlist/", "/album/", "?list=", "&list="}

// Resolver resolves a raw URL into playable tracks.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string, asPlaylist bool) ([]*domain.Track, error)
}

// QueueStatus describes the state of a session's queues for display.
type QueueStatus struct {
	Current      *domain.Track
	QueueSize    int
	PlaylistSize int
	Upcoming     []*domain.Track
}

// SchedulerService owns the per-guild playback state machine: it feeds
// resolved tracks into the session's store, starts and stops the playback
// driver, and reacts to end-of-track events by pulling the next track per
// the precedence rule.
//
// Play, Skip and HandleTrackEnd run on different goroutines (command
// handlers vs. the event-bus dispatcher), so each holds the session's
// operation lock across its pull-start-set sequence. Destroy stays outside
// the lock and relies on the generation counter to invalidate in-flight
// transitions.
type SchedulerService struct {
	repo      domain.SessionRepository
	resolver  Resolver
	player    ports.AudioPlayer
	publisher ports.EventPublisher

	// keepPlaylist retains a buffered playlist when a queued single track
	// interrupts it, instead of discarding it.
	keepPlaylist bool
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(
	repo domain.SessionRepository,
	resolver Resolver,
	player ports.AudioPlayer,
	publisher ports.EventPublisher,
	keepPlaylist bool,
) *SchedulerService {
	return &SchedulerService{
		repo:         repo,
		resolver:     resolver,
		player:       player,
		publisher:    publisher,
		keepPlaylist: keepPlaylist,
	}
}

// AddToQueue resolves the URL and routes the result into the session's
// normal queue or playlist buffer. blockPlaylists forces single-track
// handling even for playlist-worthy URLs. Returns the first resolved track
// for confirmation display.
//
// Resolution runs before any session state is touched, so a slow backend
// never blocks unrelated queue reads.
func (s *SchedulerService) AddToQueue(
	ctx context.Context,
	guildID, notificationChannelID snowflake.ID,
	rawURL string,
	blockPlaylists bool,
) (*domain.Track, error) {
	asPlaylist := !blockPlaylists && IsPlaylistURL(rawURL)

	tracks, err := s.resolver.Resolve(ctx, rawURL, asPlaylist)
	if err != nil {
		return nil, err
	}

	sess := s.repo.GetOrCreate(guildID)
	if notificationChannelID != 0 {
		sess.SetNotificationChannelID(notificationChannelID)
	}

	if asPlaylist {
		sess.EnqueuePlaylist(tracks)
	} else if !sess.Enqueue(tracks[0]) {
		return nil, ErrSongNotFound
	}

	slog.Debug("queued tracks",
		"guild", guildID,
		"count", len(tracks),
		"playlist", asPlaylist,
	)

	return tracks[0], nil
}

// Play starts playback if the session is idle. Returns true if a track was
// started, false if a track is already playing or nothing is queued.
func (s *SchedulerService) Play(ctx context.Context, guildID snowflake.ID) (bool, error) {
	sess := s.repo.Get(guildID)
	if sess == nil {
		return false, ErrNoSession
	}

	sess.LockOps()
	defer sess.UnlockOps()

	if sess.Current() != nil {
		return false, nil
	}

	track, err := s.playNext(ctx, sess)
	if err != nil {
		return false, err
	}
	return track != nil, nil
}

// Skip stops the current track and advances exactly as the end-of-track
// handler would. Returns the newly started track, or nil if the queue is
// now empty.
func (s *SchedulerService) Skip(ctx context.Context, guildID snowflake.ID) (*domain.Track, error) {
	sess := s.repo.Get(guildID)
	if sess == nil {
		return nil, ErrNoSession
	}

	sess.LockOps()
	defer sess.UnlockOps()

	if err := s.player.Stop(ctx, guildID); err != nil {
		slog.Warn("failed to stop playback on skip", "guild", guildID, "error", err)
	}
	sess.ClearCurrent()

	return s.playNext(ctx, sess)
}

// Destroy stops playback and clears the session's queues and notification
// target. Fully idempotent; safe to call on an idle or unknown guild.
func (s *SchedulerService) Destroy(ctx context.Context, guildID snowflake.ID) error {
	sess := s.repo.Get(guildID)
	if sess == nil {
		return nil
	}

	// Reset first so a racing end-of-track advance observes the bumped
	// generation and refuses to restart playback.
	sess.Reset()

	if err := s.player.Stop(ctx, guildID); err != nil {
		slog.Warn("failed to stop playback on destroy", "guild", guildID, "error", err)
	}

	slog.Info("destroyed playback session", "guild", guildID)
	return nil
}

// Shuffle randomly permutes the session's normal queue.
func (s *SchedulerService) Shuffle(guildID snowflake.ID) error {
	sess := s.repo.Get(guildID)
	if sess == nil {
		return ErrNoSession
	}
	sess.ShuffleQueue()
	return nil
}

// IsPlaying returns true iff a current track is set and playback is not paused.
func (s *SchedulerService) IsPlaying(guildID snowflake.ID) bool {
	sess := s.repo.Get(guildID)
	if sess == nil {
		return false
	}
	return sess.Current() != nil && !s.player.Paused(guildID)
}

// Status reports the session's current track and queue contents.
func (s *SchedulerService) Status(guildID snowflake.ID, upcoming int) (*QueueStatus, error) {
	sess := s.repo.Get(guildID)
	if sess == nil {
		return nil, ErrNoSession
	}
	return &QueueStatus{
		Current:      sess.Current(),
		QueueSize:    sess.QueueSize(),
		PlaylistSize: sess.PlaylistSize(),
		Upcoming:     sess.Upcoming(upcoming),
	}, nil
}

// HandleTrackEnd is the reactive half of the state machine, subscribed to
// the playback driver's end-of-track events.
func (s *SchedulerService) HandleTrackEnd(ctx context.Context, event domain.TrackEndedEvent) {
	sess := s.repo.Get(event.GuildID)
	if sess == nil {
		slog.Debug("ignoring track end for unknown session", "guild", event.GuildID)
		return
	}

	sess.LockOps()
	defer sess.UnlockOps()

	current := sess.Current()
	if current == nil {
		// Destroyed or idle session: a late notification must not resurrect
		// playback.
		slog.Debug("ignoring track end for idle session", "guild", event.GuildID)
		return
	}
	if event.EncodedTrack != "" && event.EncodedTrack != current.Encoded {
		// A skip already replaced the slot; this notification is for the
		// superseded track and has been acted on.
		slog.Debug("ignoring track end for superseded track", "guild", event.GuildID)
		return
	}

	switch {
	case event.Reason == domain.TrackEndLoadFailed:
		// Halt without advancing to avoid cascading failures. The user must
		// issue an explicit next action.
		sess.ClearCurrent()
		slog.Error("track failed to load, halting playback", "guild", event.GuildID)
		s.publisher.PublishSessionError(domain.SessionErrorEvent{
			GuildID:               event.GuildID,
			NotificationChannelID: sess.NotificationChannelID(),
			Message:               "The track failed to load. Playback has been stopped.",
		})

	case !event.Reason.ShouldAdvance():
		// Stopped, replaced or cleaned up: terminal for the current slot.

	default:
		sess.ClearCurrent()
		if _, err := s.playNext(ctx, sess); err != nil {
			slog.Error("failed to advance queue", "guild", event.GuildID, "error", err)
		}
	}
}

// playNext pulls the next track per the precedence rule and starts it.
// Publishes QueueDrained when nothing is left, PlaybackStarted otherwise.
func (s *SchedulerService) playNext(
	ctx context.Context,
	sess *domain.Session,
) (*domain.Track, error) {
	generation := sess.Generation()

	next := sess.PullNext(s.keepPlaylist)
	if next == nil {
		s.publisher.PublishQueueDrained(domain.QueueDrainedEvent{
			GuildID:               sess.GuildID(),
			NotificationChannelID: sess.NotificationChannelID(),
		})
		return nil, nil
	}

	if err := s.player.Play(ctx, sess.GuildID(), next); err != nil {
		sess.ClearCurrent()
		return nil, err
	}

	// A destroy may have raced the driver call; never resurrect a destroyed
	// session's playing state.
	if sess.Generation() != generation {
		if err := s.player.Stop(ctx, sess.GuildID()); err != nil {
			slog.Warn("failed to stop stale playback", "guild", sess.GuildID(), "error", err)
		}
		return nil, nil
	}

	sess.SetCurrent(next)
	s.publisher.PublishPlaybackStarted(domain.PlaybackStartedEvent{
		GuildID:               sess.GuildID(),
		Track:                 next,
		NotificationChannelID: sess.NotificationChannelID(),
		QueuedTracks:          sess.QueueSize() + sess.PlaylistSize(),
	})
	return next, nil
}

// IsPlaylistURL reports whether the URL carries a playlist or album marker.
func IsPlaylistURL(rawURL string) bool {
	for _, marker := range playlistMarkers {
		if strings.Contains(rawURL, marker) {
			return true
		}
	}
	return false
}
