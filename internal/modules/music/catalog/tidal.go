package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
)

const (
	tidalHostMarker = "tidal"

	tidalTokenURL = "https://auth.tidal.com/v1/oauth2/token"
	tidalAPIBase  = "https://openapi.tidal.com"

	tidalAccept = "application/vnd.tidal.v1+json"

	// tidalArtistTrackLimit caps the top tracks resolved for /artist/ links.
	tidalArtistTrackLimit = 15
)

// Compile-time interface check.
var _ ports.CatalogResolver = (*TidalResolver)(nil)

// tidalArtist is an artist entry in a Tidal resource.
type tidalArtist struct {
	Name string `json:"name"`
	Main bool   `json:"main"`
}

// tidalResource is the track payload of the Tidal OpenAPI.
type tidalResource struct {
	Title   string        `json:"title"`
	Artists []tidalArtist `json:"artists"`
}

type tidalTrackResponse struct {
	Resource tidalResource `json:"resource"`
}

type tidalTrackListResponse struct {
	Data []tidalTrackResponse `json:"data"`
}

type tidalErrorResponse struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// TidalResolver resolves Tidal track and artist links into qualified track
// names via the Tidal OpenAPI. Albums, mixes, playlists and videos are not
// exposed by the track endpoints and are rejected with explicit errors.
type TidalResolver struct {
	auth        clientcredentials.Config
	httpClient  *http.Client
	baseURL     string
	countryCode string

	mu     sync.RWMutex
	token  string
	usable bool

	stop chan struct{}
}

// NewTidalResolver creates a TidalResolver and starts its credential refresh
// loop. Call Close to stop the loop.
func NewTidalResolver(clientID, clientSecret, countryCode string) *TidalResolver {
	if countryCode == "" {
		countryCode = "US"
	}
	r := &TidalResolver{
		auth: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tidalTokenURL,
		},
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     tidalAPIBase,
		countryCode: countryCode,
		stop:        make(chan struct{}),
	}
	go r.refreshLoop()
	return r
}

// Close stops the credential refresh loop.
func (r *TidalResolver) Close() {
	close(r.stop)
}

// Name returns "tidal".
func (r *TidalResolver) Name() string { return "tidal" }

// Matches reports whether the host belongs to Tidal.
func (r *TidalResolver) Matches(host string) bool {
	return strings.Contains(host, tidalHostMarker)
}

// Usable reports whether the client-credentials token is currently valid.
func (r *TidalResolver) Usable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usable
}

// QualifiedTrackNames resolves /track/ links to a single "artist - title"
// string and /artist/ links to the artist's top tracks (capped at 15).
func (r *TidalResolver) QualifiedTrackNames(
	ctx context.Context,
	rawURL string,
) ([]string, error) {
	if !r.Usable() {
		return nil, fmt.Errorf("tidal credentials are not ready")
	}

	id := entityIDFromURL(rawURL)
	if id == "" {
		return nil, fmt.Errorf("could not extract a tidal entity ID from %q", rawURL)
	}

	switch pathKind(rawURL) {
	case "track":
		return r.trackName(ctx, id)
	case "artist":
		return r.artistTopTracks(ctx, id)
	case "album":
		return nil, fmt.Errorf("tidal albums are not supported")
	case "mix":
		return nil, fmt.Errorf("tidal mixes are not supported")
	case "playlist":
		return nil, fmt.Errorf("tidal playlists are not supported")
	case "video":
		return nil, fmt.Errorf("tidal videos are not supported")
	default:
		return nil, fmt.Errorf("unsupported tidal entity in %q", rawURL)
	}
}

func (r *TidalResolver) trackName(ctx context.Context, id string) ([]string, error) {
	endpoint := r.baseURL + "/tracks/" + id + "?countryCode=" + r.countryCode

	var response tidalTrackResponse
	if err := r.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	resource := response.Resource
	return []string{qualifiedName(tidalPrincipalArtist(resource.Artists), resource.Title)}, nil
}

func (r *TidalResolver) artistTopTracks(ctx context.Context, id string) ([]string, error) {
	endpoint := r.baseURL + "/artists/" + id + "/tracks" +
		"?countryCode=" + r.countryCode +
		"&limit=" + strconv.Itoa(tidalArtistTrackLimit)

	var response tidalTrackListResponse
	if err := r.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(response.Data))
	for _, entry := range response.Data {
		resource := entry.Resource
		names = append(names, qualifiedName(tidalPrincipalArtist(resource.Artists), resource.Title))
	}
	return names, nil
}

// get performs an authenticated GET and decodes the JSON body into out.
// Non-2xx responses surface the backend's error detail when present.
func (r *TidalResolver) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build tidal request: %w", err)
	}
	req.Header.Set("Accept", tidalAccept)
	req.Header.Set("Authorization", "Bearer "+r.currentToken())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tidal request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read tidal response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResponse tidalErrorResponse
		if json.Unmarshal(body, &errResponse) == nil && len(errResponse.Errors) > 0 {
			return fmt.Errorf("tidal: %s", errResponse.Errors[0].Detail)
		}
		return fmt.Errorf("tidal returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode tidal response: %w", err)
	}
	return nil
}

func (r *TidalResolver) currentToken() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

func (r *TidalResolver) refreshLoop() {
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

func (r *TidalResolver) refresh(ctx context.Context) time.Duration {
	token, err := r.auth.Token(ctx)
	if err != nil {
		r.mu.Lock()
		r.usable = false
		r.mu.Unlock()
		slog.Error("tidal authentication failed", "error", err)
		return refreshRetryInterval
	}

	r.mu.Lock()
	r.token = token.AccessToken
	r.usable = true
	r.mu.Unlock()

	slog.Info("refreshed tidal credentials", "expires", token.Expiry)

	wait := time.Until(token.Expiry) - refreshLead
	if wait < refreshRetryInterval {
		wait = refreshRetryInterval
	}
	return wait
}

// tidalPrincipalArtist returns the main artist's name, falling back to the
// first listed artist when none is flagged as main.
func tidalPrincipalArtist(artists []tidalArtist) string {
	for _, artist := range artists {
		if artist.Main {
			return artist.Name
		}
	}
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}
