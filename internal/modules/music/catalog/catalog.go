// Package catalog implements catalog-provider resolvers that translate
// shareable streaming-service links into "artist - title" search text, plus
// a host-based registry with a resolution cache.
package catalog

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// refreshLead is how long before token expiry a provider re-authenticates.
const refreshLead = 5 * time.Minute

// refreshRetryInterval is the wait before retrying a failed re-authentication.
const refreshRetryInterval = time.Minute

// entityIDFromURL extracts the catalog entity ID: the last path segment,
// query string excluded. Returns "" if the URL has no usable path.
func entityIDFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	id := path.Base(parsed.Path)
	if id == "." || id == "/" {
		return ""
	}
	return id
}

// pathKind returns the entity kind segment of a catalog URL path, e.g.
// "track" for /track/abc123. Returns "" when the path has no kind segment.
func pathKind(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, segment := range strings.Split(parsed.Path, "/") {
		switch segment {
		case "track", "album", "playlist", "artist", "mix", "video":
			return segment
		}
	}
	return ""
}

// qualifiedName formats a track as "artist - title". Tracks without a known
// artist collapse to the bare title.
func qualifiedName(artist, title string) string {
	if artist == "" {
		return title
	}
	return artist + " - " + title
}
