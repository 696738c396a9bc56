package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped explicitly.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the track was cleaned up by the node.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvance returns true if this end reason should pull the next track.
// Load failures halt playback instead of advancing to avoid cascading
// failures; stop, replace and cleanup are terminal for the current slot.
func (r TrackEndReason) ShouldAdvance() bool {
	return r == TrackEndFinished
}

// TrackEndedEvent is published by the playback driver when the active track
// ends. EncodedTrack identifies which track ended so a late notification can
// be matched against the current slot.
type TrackEndedEvent struct {
	GuildID      snowflake.ID
	Reason       TrackEndReason
	EncodedTrack string
}

// PlaybackStartedEvent is published when a track starts playing.
type PlaybackStartedEvent struct {
	GuildID               snowflake.ID
	Track                 *Track
	NotificationChannelID snowflake.ID
	QueuedTracks          int // tracks remaining across both collections
}

// QueueDrainedEvent is published when an advance finds nothing left to play.
type QueueDrainedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

// SessionErrorEvent is published when playback halts on an error, such as a
// track that failed to load.
type SessionErrorEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
	Message               string
}
