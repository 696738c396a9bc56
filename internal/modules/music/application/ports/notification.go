package ports

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// NotificationSender sends playback notifications to text channels.
type NotificationSender interface {
	// SendNowPlaying sends a "Now Playing" embed for the given track.
	SendNowPlaying(channelID snowflake.ID, track *domain.Track, queuedTracks int) error

	// SendQueueEmpty announces that playback stopped because nothing is left.
	SendQueueEmpty(channelID snowflake.ID) error

	// SendError sends an error message embed to the channel.
	SendError(channelID snowflake.ID, message string) error
}
