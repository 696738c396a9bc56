package music

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/radiopele/internal/bot"
	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/application/usecases"
	"github.com/sglre6355/radiopele/internal/modules/music/catalog"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
	"github.com/sglre6355/radiopele/internal/modules/music/infrastructure"
	"github.com/sglre6355/radiopele/internal/modules/music/presentation"
)

func init() {
	bot.Register(&MusicModule{})
}

// Compile-time interface checks.
var (
	_ bot.Module             = (*MusicModule)(nil)
	_ bot.ConfigurableModule = (*MusicModule)(nil)
)

// MusicModule provides voice-channel music playback commands.
type MusicModule struct {
	config   *Config
	handlers *presentation.Handlers

	lavalinkAdapter *infrastructure.LavalinkAdapter
	eventBus        *infrastructure.ChannelEventBus
	notifier        *infrastructure.Notifier
	scheduler       *usecases.SchedulerService

	spotify *catalog.SpotifyResolver
	tidal   *catalog.TidalResolver
}

// Name returns the module name.
func (m *MusicModule) Name() string {
	return "music"
}

// Commands returns the slash commands for this module.
func (m *MusicModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":     m.handlers.HandlePlay,
		"playlist": m.handlers.HandlePlaylist,
		"skip":     m.handlers.HandleSkip,
		"stop":     m.handlers.HandleStop,
		"shuffle":  m.handlers.HandleShuffle,
		"queue":    m.handlers.HandleQueue,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.lavalinkAdapter != nil {
				m.lavalinkAdapter.OnVoiceServerUpdate(event)
			}
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.lavalinkAdapter != nil {
				m.lavalinkAdapter.OnVoiceStateUpdate(event)
			}
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicModule) Init(deps bot.ModuleDependencies) error {
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(deps.Session,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
		})
	if err != nil {
		return err
	}
	lavalinkAdapter.SetEventPublisher(m.eventBus)
	m.lavalinkAdapter = lavalinkAdapter

	repo := infrastructure.NewMemoryRepository(m.config.MaxPlaylistSize)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	m.notifier = infrastructure.NewNotifier(deps.Session)

	// Register catalog providers only when credentials are configured
	var resolvers []ports.CatalogResolver
	if m.config.SpotifyClientID != "" && m.config.SpotifyClientSecret != "" {
		m.spotify = catalog.NewSpotifyResolver(
			m.config.SpotifyClientID,
			m.config.SpotifyClientSecret,
		)
		resolvers = append(resolvers, m.spotify)
	}
	if m.config.TidalClientID != "" && m.config.TidalClientSecret != "" {
		m.tidal = catalog.NewTidalResolver(
			m.config.TidalClientID,
			m.config.TidalClientSecret,
			m.config.TidalCountryCode,
		)
		resolvers = append(resolvers, m.tidal)
	}
	registry := catalog.NewRegistry(resolvers...)

	resolver := usecases.NewTrackResolverService(registry, lavalinkAdapter,
		m.config.ResolveTimeout)
	m.scheduler = usecases.NewSchedulerService(
		repo,
		resolver,
		lavalinkAdapter,
		m.eventBus,
		m.config.KeepPlaylistOnInterrupt,
	)

	// Wire playback events to the scheduler and notifications
	m.eventBus.OnTrackEnded(m.scheduler.HandleTrackEnd)
	m.eventBus.OnPlaybackStarted(m.handlePlaybackStarted)
	m.eventBus.OnQueueDrained(m.handleQueueDrained)
	m.eventBus.OnSessionError(m.handleSessionError)

	m.handlers = presentation.NewHandlers(m.scheduler, lavalinkAdapter, voiceState)

	slog.Info("music module initialized",
		"spotify", m.spotify != nil,
		"tidal", m.tidal != nil,
	)

	return nil
}

// Shutdown cleans up module resources.
func (m *MusicModule) Shutdown() error {
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.spotify != nil {
		m.spotify.Close()
	}
	if m.tidal != nil {
		m.tidal.Close()
	}
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Link().Close()
	}
	return nil
}

func (m *MusicModule) handlePlaybackStarted(
	_ context.Context,
	event domain.PlaybackStartedEvent,
) {
	if event.NotificationChannelID == 0 {
		return
	}
	err := m.notifier.SendNowPlaying(event.NotificationChannelID, event.Track,
		event.QueuedTracks)
	if err != nil {
		slog.Warn("failed to send now playing notification",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

func (m *MusicModule) handleQueueDrained(
	_ context.Context,
	event domain.QueueDrainedEvent,
) {
	if event.NotificationChannelID == 0 {
		return
	}
	if err := m.notifier.SendQueueEmpty(event.NotificationChannelID); err != nil {
		slog.Warn("failed to send queue empty notification",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

func (m *MusicModule) handleSessionError(
	_ context.Context,
	event domain.SessionErrorEvent,
) {
	if event.NotificationChannelID == 0 {
		return
	}
	if err := m.notifier.SendError(event.NotificationChannelID, event.Message); err != nil {
		slog.Warn("failed to send error notification",
			"guild", event.GuildID,
			"error", err,
		)
	}
}
