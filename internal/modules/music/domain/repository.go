package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository stores and retrieves per-guild playback sessions.
type SessionRepository interface {
	// GetOrCreate returns the Session for the given guild, creating an idle
	// one if none exists yet.
	GetOrCreate(guildID snowflake.ID) *Session

	// Get returns the Session for the given guild, or nil if not exists.
	Get(guildID snowflake.ID) *Session

	// Delete removes the Session for the given guild.
	Delete(guildID snowflake.ID)
}
