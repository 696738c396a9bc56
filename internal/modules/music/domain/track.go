package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Track represents a resolved, directly playable audio item.
// It is immutable once resolved; ownership moves from the queue that holds it
// to the session's current slot when dequeued.
type Track struct {
	Encoded     string // Lavalink encoded track data
	Title       string
	Artist      string
	Duration    time.Duration
	URI         string
	ArtworkURL  string
	SourceName  string // e.g., "youtube", "soundcloud"
	IsStream    bool
	RequesterID snowflake.ID
	EnqueuedAt  time.Time
}

// Display returns "artist - title", or just the title when the artist is unknown.
func (t *Track) Display() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.Encoded != "" && t.Title != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
