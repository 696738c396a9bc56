package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// VoiceConnection manages the bot's voice channel membership.
type VoiceConnection interface {
	// JoinChannel connects to a voice channel and blocks until the
	// connection is established or ctx expires.
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error

	// LeaveChannel disconnects from the guild's voice channel.
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
}

// VoiceStateProvider answers which voice channel a user currently occupies.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the user's voice channel ID, or 0 if the
	// user is not in a voice channel.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
