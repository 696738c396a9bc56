package usecases

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

func mockTrack(id string) *domain.Track {
	return &domain.Track{
		Encoded:  "encoded-" + id,
		Title:    "Track " + id,
		Artist:   "Artist",
		Duration: 3 * time.Minute,
		URI:      "https://example.com/" + id,
	}
}

func mockTracks(n int) []*domain.Track {
	tracks := make([]*domain.Track, n)
	for i := range tracks {
		tracks[i] = mockTrack(strconv.Itoa(i))
	}
	return tracks
}

type mockRepository struct {
	sessions map[snowflake.ID]*domain.Session
	deleted  []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

func (m *mockRepository) GetOrCreate(guildID snowflake.ID) *domain.Session {
	if sess, ok := m.sessions[guildID]; ok {
		return sess
	}
	sess := domain.NewSession(guildID, domain.DefaultMaxPlaylistSize)
	m.sessions[guildID] = sess
	return sess
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.Session {
	return m.sessions[guildID]
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.deleted = append(m.deleted, guildID)
	delete(m.sessions, guildID)
}

type mockAudioPlayer struct {
	playErr error
	stopErr error
	paused  bool

	played  []*domain.Track
	stopped int
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, track)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.stopped++
	return m.stopErr
}

func (m *mockAudioPlayer) Paused(_ snowflake.ID) bool {
	return m.paused
}

// gatedAudioPlayer blocks inside Play until released, so a test can hold a
// scheduler transition mid-flight and race another operation against it.
type gatedAudioPlayer struct {
	entered chan struct{}
	release chan struct{}

	mu      sync.Mutex
	played  []*domain.Track
	stopped int
}

func newGatedAudioPlayer() *gatedAudioPlayer {
	return &gatedAudioPlayer{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (p *gatedAudioPlayer) Play(ctx context.Context, _ snowflake.ID, track *domain.Track) error {
	p.entered <- struct{}{}
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, track)
	return nil
}

func (p *gatedAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped++
	return nil
}

func (p *gatedAudioPlayer) Paused(_ snowflake.ID) bool { return false }

type mockTrackLoader struct {
	err     error
	results map[string]*ports.LoadResult
	queries []string

	// delay simulates a slow backend for timeout tests.
	delay time.Duration
}

func (m *mockTrackLoader) LoadTracks(
	ctx context.Context,
	query string,
) (*ports.LoadResult, error) {
	m.queries = append(m.queries, query)
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if result, ok := m.results[query]; ok {
		return result, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty, SelectedIndex: -1}, nil
}

type mockCatalogResolver struct {
	name   string
	marker string
	names  []string
	err    error
	usable bool
}

func (m *mockCatalogResolver) Name() string { return m.name }

func (m *mockCatalogResolver) Matches(host string) bool {
	return m.marker != "" && strings.Contains(host, m.marker)
}

func (m *mockCatalogResolver) QualifiedTrackNames(
	_ context.Context,
	_ string,
) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.names, nil
}

func (m *mockCatalogResolver) Usable() bool { return m.usable }

type mockCatalogRegistry struct {
	resolvers []ports.CatalogResolver
}

func (m *mockCatalogRegistry) ForHost(host string) ports.CatalogResolver {
	for _, r := range m.resolvers {
		if r.Matches(host) {
			return r
		}
	}
	return nil
}

type mockResolver struct {
	tracks []*domain.Track
	err    error

	calls []mockResolveCall
}

type mockResolveCall struct {
	rawURL     string
	asPlaylist bool
}

func (m *mockResolver) Resolve(
	_ context.Context,
	rawURL string,
	asPlaylist bool,
) ([]*domain.Track, error) {
	m.calls = append(m.calls, mockResolveCall{rawURL: rawURL, asPlaylist: asPlaylist})
	if m.err != nil {
		return nil, m.err
	}
	return m.tracks, nil
}

type mockEventPublisher struct {
	trackEnded      []domain.TrackEndedEvent
	playbackStarted []domain.PlaybackStartedEvent
	queueDrained    []domain.QueueDrainedEvent
	sessionErrors   []domain.SessionErrorEvent
}

func (m *mockEventPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	m.trackEnded = append(m.trackEnded, event)
}

func (m *mockEventPublisher) PublishPlaybackStarted(event domain.PlaybackStartedEvent) {
	m.playbackStarted = append(m.playbackStarted, event)
}

func (m *mockEventPublisher) PublishQueueDrained(event domain.QueueDrainedEvent) {
	m.queueDrained = append(m.queueDrained, event)
}

func (m *mockEventPublisher) PublishSessionError(event domain.SessionErrorEvent) {
	m.sessionErrors = append(m.sessionErrors, event)
}
