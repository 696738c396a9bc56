package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// AudioPlayer defines the playback driver operations.
type AudioPlayer interface {
	// Play starts playback of the given track.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error

	// Stop stops the current playback.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Paused returns true if playback for the guild is currently paused.
	Paused(guildID snowflake.ID) bool
}
