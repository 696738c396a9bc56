package presentation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/bot"
	"github.com/sglre6355/radiopele/internal/modules/music/application/usecases"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

type addToQueueCall struct {
	rawURL         string
	blockPlaylists bool
}

type mockScheduler struct {
	addTrack   *domain.Track
	addErr     error
	addCalls   []addToQueueCall
	playErr    error
	playCalls  int
	skipTrack  *domain.Track
	skipErr    error
	destroyErr error
	destroyed  []snowflake.ID
	shuffleErr error
	status     *usecases.QueueStatus
	statusErr  error
}

func (m *mockScheduler) AddToQueue(
	_ context.Context,
	_, _ snowflake.ID,
	rawURL string,
	blockPlaylists bool,
) (*domain.Track, error) {
	m.addCalls = append(m.addCalls, addToQueueCall{rawURL: rawURL, blockPlaylists: blockPlaylists})
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.addTrack, nil
}

func (m *mockScheduler) Play(_ context.Context, _ snowflake.ID) (bool, error) {
	m.playCalls++
	if m.playErr != nil {
		return false, m.playErr
	}
	return true, nil
}

func (m *mockScheduler) Skip(_ context.Context, _ snowflake.ID) (*domain.Track, error) {
	if m.skipErr != nil {
		return nil, m.skipErr
	}
	return m.skipTrack, nil
}

func (m *mockScheduler) Destroy(_ context.Context, guildID snowflake.ID) error {
	m.destroyed = append(m.destroyed, guildID)
	return m.destroyErr
}

func (m *mockScheduler) Shuffle(_ snowflake.ID) error {
	return m.shuffleErr
}

func (m *mockScheduler) Status(_ snowflake.ID, _ int) (*usecases.QueueStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.status, nil
}

type mockVoice struct {
	joinErr  error
	joined   []snowflake.ID
	leaveErr error
	left     []snowflake.ID
}

func (m *mockVoice) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoice) LeaveChannel(_ context.Context, guildID snowflake.ID) error {
	if m.leaveErr != nil {
		return m.leaveErr
	}
	m.left = append(m.left, guildID)
	return nil
}

type mockVoiceState struct {
	channelID snowflake.ID
	err       error
}

func (m *mockVoiceState) GetUserVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return m.channelID, m.err
}

func sampleTrack() *domain.Track {
	return &domain.Track{
		Encoded: "encoded",
		Title:   "Song",
		Artist:  "Artist",
		URI:     "https://example.com/watch?v=1",
	}
}

func playInteraction(command, url string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "100",
			ChannelID: "200",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "300"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: command,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:  "url",
						Type:  discordgo.ApplicationCommandOptionString,
						Value: url,
					},
				},
			},
		},
	}
}

func bareInteraction(command string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "100",
			Data:    discordgo.ApplicationCommandInteractionData{Name: command},
		},
	}
}

func embedDescription(t *testing.T, responder *bot.MockResponder) string {
	t.Helper()
	if responder.LastResponse == nil || responder.LastResponse.Data == nil {
		t.Fatal("expected a response with data")
	}
	embeds := responder.LastResponse.Data.Embeds
	if len(embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(embeds))
	}
	return embeds[0].Description
}

func TestHandlePlay_QueuesSingleTrack(t *testing.T) {
	scheduler := &mockScheduler{addTrack: sampleTrack()}
	voice := &mockVoice{}
	handlers := NewHandlers(scheduler, voice, &mockVoiceState{channelID: snowflake.ID(400)})
	responder := &bot.MockResponder{}

	err := handlers.HandlePlay(nil, playInteraction("play", "https://example.com/watch?v=1"),
		responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scheduler.addCalls) != 1 {
		t.Fatalf("expected 1 AddToQueue call, got %d", len(scheduler.addCalls))
	}
	if !scheduler.addCalls[0].blockPlaylists {
		t.Error("expected /play to block playlist handling")
	}
	if scheduler.playCalls != 1 {
		t.Errorf("expected Play to be called once, got %d", scheduler.playCalls)
	}
	if len(voice.joined) != 1 || voice.joined[0] != snowflake.ID(400) {
		t.Errorf("expected join of channel 400, got %v", voice.joined)
	}
	if got := embedDescription(t, responder); !strings.Contains(got, "Added") {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandlePlaylist_AllowsPlaylists(t *testing.T) {
	scheduler := &mockScheduler{addTrack: sampleTrack()}
	handlers := NewHandlers(scheduler, &mockVoice{},
		&mockVoiceState{channelID: snowflake.ID(400)})
	responder := &bot.MockResponder{}

	err := handlers.HandlePlaylist(nil,
		playInteraction("playlist", "https://example.com/playlist/1"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scheduler.addCalls) != 1 {
		t.Fatalf("expected 1 AddToQueue call, got %d", len(scheduler.addCalls))
	}
	if scheduler.addCalls[0].blockPlaylists {
		t.Error("expected /playlist to allow playlist handling")
	}
}

func TestHandlePlay_RequiresVoiceChannel(t *testing.T) {
	scheduler := &mockScheduler{addTrack: sampleTrack()}
	handlers := NewHandlers(scheduler, &mockVoice{}, &mockVoiceState{channelID: 0})
	responder := &bot.MockResponder{}

	err := handlers.HandlePlay(nil, playInteraction("play", "https://example.com/watch?v=1"),
		responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scheduler.addCalls) != 0 {
		t.Error("expected no AddToQueue call when the user is not in a voice channel")
	}
	if got := embedDescription(t, responder); got != "You must be in a voice channel." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandlePlay_MapsResolutionErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid url", usecases.ErrInvalidURL, "Invalid URL."},
		{"not found", usecases.ErrNotFound, "Not found."},
		{"timed out", usecases.ErrTimedOut, "Timed out."},
		{"song not found", usecases.ErrSongNotFound, "Song not found."},
		{"playlist not found", usecases.ErrPlaylistNotFound, "Playlist not found."},
		{"nothing resolved", usecases.ErrNothingResolved, "No tracks were resolved."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := &mockScheduler{addErr: tt.err}
			handlers := NewHandlers(scheduler, &mockVoice{},
				&mockVoiceState{channelID: snowflake.ID(400)})
			responder := &bot.MockResponder{}

			err := handlers.HandlePlay(nil,
				playInteraction("play", "https://example.com/x"), responder)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := embedDescription(t, responder); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHandleSkip(t *testing.T) {
	next := sampleTrack()
	scheduler := &mockScheduler{skipTrack: next}
	handlers := NewHandlers(scheduler, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleSkip(nil, bareInteraction("skip"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := embedDescription(t, responder); !strings.Contains(got, "Now playing") {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandleSkip_EmptyQueue(t *testing.T) {
	scheduler := &mockScheduler{}
	handlers := NewHandlers(scheduler, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleSkip(nil, bareInteraction("skip"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := embedDescription(t, responder); got != "Skipped. The queue is empty." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandleSkip_NoSession(t *testing.T) {
	scheduler := &mockScheduler{skipErr: usecases.ErrNoSession}
	handlers := NewHandlers(scheduler, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleSkip(nil, bareInteraction("skip"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := embedDescription(t, responder); got != "Nothing is queued for this server." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandleStop_DestroysAndLeaves(t *testing.T) {
	scheduler := &mockScheduler{}
	voice := &mockVoice{}
	handlers := NewHandlers(scheduler, voice, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleStop(nil, bareInteraction("stop"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scheduler.destroyed) != 1 || scheduler.destroyed[0] != snowflake.ID(100) {
		t.Errorf("expected destroy of guild 100, got %v", scheduler.destroyed)
	}
	if len(voice.left) != 1 {
		t.Errorf("expected one voice leave, got %d", len(voice.left))
	}
}

func TestHandleShuffle(t *testing.T) {
	handlers := NewHandlers(&mockScheduler{}, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleShuffle(nil, bareInteraction("shuffle"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := embedDescription(t, responder); got != "Shuffled the queue." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandleQueue_ListsTracks(t *testing.T) {
	scheduler := &mockScheduler{
		status: &usecases.QueueStatus{
			Current:      sampleTrack(),
			QueueSize:    3,
			PlaylistSize: 0,
			Upcoming: []*domain.Track{
				{Encoded: "a", Title: "First", Artist: "Artist"},
				{Encoded: "b", Title: "Second", Artist: "Artist"},
			},
		},
	}
	handlers := NewHandlers(scheduler, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleQueue(nil, bareInteraction("queue"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := embedDescription(t, responder)
	if !strings.Contains(got, "Now playing") {
		t.Errorf("expected now-playing header in %q", got)
	}
	if !strings.Contains(got, "1. Artist - First") || !strings.Contains(got, "2. Artist - Second") {
		t.Errorf("expected numbered track list in %q", got)
	}
	if !strings.Contains(got, "and 1 more") {
		t.Errorf("expected remainder note in %q", got)
	}
}

func TestHandleQueue_Empty(t *testing.T) {
	scheduler := &mockScheduler{status: &usecases.QueueStatus{}}
	handlers := NewHandlers(scheduler, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{}

	err := handlers.HandleQueue(nil, bareInteraction("queue"), responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := embedDescription(t, responder); !strings.Contains(got, "queue is empty") {
		t.Errorf("unexpected description %q", got)
	}
}

func TestHandlers_ResponderError(t *testing.T) {
	expectedErr := errors.New("responder failed")
	handlers := NewHandlers(&mockScheduler{}, &mockVoice{}, &mockVoiceState{})
	responder := &bot.MockResponder{Err: expectedErr}

	err := handlers.HandleShuffle(nil, bareInteraction("shuffle"), responder)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}
