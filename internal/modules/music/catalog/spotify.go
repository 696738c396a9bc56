package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	spotify "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
)

const (
	spotifyHostMarker = "spotify"

	// API page limits per entity kind.
	spotifyAlbumTrackLimit   = 50
	spotifyPlaylistItemLimit = 100
)

// Compile-time interface check.
var _ ports.CatalogResolver = (*SpotifyResolver)(nil)

// SpotifyResolver resolves Spotify track, album and playlist links into
// qualified track names using the Web API under a client-credentials token.
//
// A background loop re-authenticates before each token expires; while the
// credential is invalid the resolver reports itself unusable and fails fast.
type SpotifyResolver struct {
	auth clientcredentials.Config

	mu     sync.RWMutex
	client *spotify.Client
	usable bool

	stop chan struct{}
}

// NewSpotifyResolver creates a SpotifyResolver and starts its credential
// refresh loop. Call Close to stop the loop.
func NewSpotifyResolver(clientID, clientSecret string) *SpotifyResolver {
	r := &SpotifyResolver{
		auth: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
		stop: make(chan struct{}),
	}
	go r.refreshLoop()
	return r
}

// Close stops the credential refresh loop.
func (r *SpotifyResolver) Close() {
	close(r.stop)
}

// Name returns "spotify".
func (r *SpotifyResolver) Name() string { return "spotify" }

// Matches reports whether the host belongs to Spotify.
func (r *SpotifyResolver) Matches(host string) bool {
	return strings.Contains(host, spotifyHostMarker)
}

// Usable reports whether the client-credentials token is currently valid.
func (r *SpotifyResolver) Usable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usable
}

// QualifiedTrackNames resolves the entity behind the URL into "artist -
// title" strings: a single name for /track/ links, up to 50 for /album/
// links and up to 100 for /playlist/ links.
func (r *SpotifyResolver) QualifiedTrackNames(
	ctx context.Context,
	rawURL string,
) ([]string, error) {
	client := r.getClient()
	if client == nil {
		return nil, fmt.Errorf("spotify credentials are not ready")
	}

	id := spotify.ID(entityIDFromURL(rawURL))
	if id == "" {
		return nil, fmt.Errorf("could not extract a spotify entity ID from %q", rawURL)
	}

	switch pathKind(rawURL) {
	case "track":
		track, err := client.GetTrack(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("spotify track lookup failed: %w", err)
		}
		return []string{qualifiedName(principalArtist(track.Artists), track.Name)}, nil

	case "album":
		page, err := client.GetAlbumTracks(ctx, id, spotify.Limit(spotifyAlbumTrackLimit))
		if err != nil {
			return nil, fmt.Errorf("spotify album lookup failed: %w", err)
		}
		names := make([]string, 0, len(page.Tracks))
		for _, track := range page.Tracks {
			names = append(names, qualifiedName(principalArtist(track.Artists), track.Name))
		}
		return names, nil

	case "playlist":
		page, err := client.GetPlaylistItems(ctx, id, spotify.Limit(spotifyPlaylistItemLimit))
		if err != nil {
			return nil, fmt.Errorf("spotify playlist lookup failed: %w", err)
		}
		names := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			// Episodes and removed tracks have no track payload
			if item.Track.Track == nil {
				continue
			}
			track := item.Track.Track
			names = append(names, qualifiedName(principalArtist(track.Artists), track.Name))
		}
		return names, nil

	default:
		return nil, fmt.Errorf("unsupported spotify entity in %q", rawURL)
	}
}

func (r *SpotifyResolver) getClient() *spotify.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.usable {
		return nil
	}
	return r.client
}

func (r *SpotifyResolver) refreshLoop() {
	ctx := context.Background()
	for {
		wait := r.refresh(ctx)
		select {
		case <-r.stop:
			return
		case <-time.After(wait):
		}
	}
}

// refresh re-authenticates and returns how long to wait before the next
// attempt: up to 5 minutes before expiry on success, a short retry interval
// on failure.
func (r *SpotifyResolver) refresh(ctx context.Context) time.Duration {
	token, err := r.auth.Token(ctx)
	if err != nil {
		r.mu.Lock()
		r.usable = false
		r.mu.Unlock()
		slog.Error("spotify authentication failed", "error", err)
		return refreshRetryInterval
	}

	httpClient := spotifyauth.New().Client(ctx, token)

	r.mu.Lock()
	r.client = spotify.New(httpClient)
	r.usable = true
	r.mu.Unlock()

	slog.Info("refreshed spotify credentials", "expires", token.Expiry)

	wait := time.Until(token.Expiry) - refreshLead
	if wait < refreshRetryInterval {
		wait = refreshRetryInterval
	}
	return wait
}

// principalArtist returns the first listed artist's name. Spotify reports
// the principal artist first; entities without one fall back the same way.
func principalArtist(artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}
