package music

import "time"

// Config holds the music module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`

	// Catalog provider credentials. Leaving a pair empty disables that
	// provider; its links then fail with an explicit error.
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	TidalClientID       string `env:"TIDAL_CLIENT_ID"`
	TidalClientSecret   string `env:"TIDAL_CLIENT_SECRET"`
	TidalCountryCode    string `env:"TIDAL_COUNTRY_CODE" envDefault:"US"`

	MaxPlaylistSize int           `env:"MUSIC_MAX_PLAYLIST_SIZE" envDefault:"100"`
	ResolveTimeout  time.Duration `env:"MUSIC_RESOLVE_TIMEOUT" envDefault:"5s"`

	// KeepPlaylistOnInterrupt retains a buffered playlist when a queued
	// single track interrupts it, instead of the default discard.
	KeepPlaylistOnInterrupt bool `env:"MUSIC_KEEP_PLAYLIST_ON_INTERRUPT" envDefault:"false"`
}
