package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/bot"
	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/application/usecases"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// queueDisplayLimit caps how many upcoming tracks the /queue embed lists.
const queueDisplayLimit = 10

// Scheduler is the slice of the scheduling service the handlers use.
type Scheduler interface {
	AddToQueue(
		ctx context.Context,
		guildID, notificationChannelID snowflake.ID,
		rawURL string,
		blockPlaylists bool,
	) (*domain.Track, error)
	Play(ctx context.Context, guildID snowflake.ID) (bool, error)
	Skip(ctx context.Context, guildID snowflake.ID) (*domain.Track, error)
	Destroy(ctx context.Context, guildID snowflake.ID) error
	Shuffle(guildID snowflake.ID) error
	Status(guildID snowflake.ID, upcoming int) (*usecases.QueueStatus, error)
}

// Handlers holds all the command handlers.
type Handlers struct {
	scheduler  Scheduler
	voice      ports.VoiceConnection
	voiceState ports.VoiceStateProvider
}

// NewHandlers creates new Handlers.
func NewHandlers(
	scheduler Scheduler,
	voice ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
) *Handlers {
	return &Handlers{
		scheduler:  scheduler,
		voice:      voice,
		voiceState: voiceState,
	}
}

// HandlePlay handles the /play command. Playlist links are treated as a
// single track.
func (h *Handlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.handleEnqueue(i, r, true)
}

// HandlePlaylist handles the /playlist command.
func (h *Handlers) HandlePlaylist(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.handleEnqueue(i, r, false)
}

func (h *Handlers) handleEnqueue(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	blockPlaylists bool,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	notificationChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid notification channel")
	}

	var rawURL string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "url" {
			rawURL = opt.StringValue()
		}
	}

	// Join the requester's voice channel before touching the queue
	voiceChannelID, err := h.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return respondError(r, err.Error())
	}
	if voiceChannelID == 0 {
		return respondError(r, "You must be in a voice channel.")
	}
	if err := h.voice.JoinChannel(ctx, guildID, voiceChannelID); err != nil {
		return respondError(r, err.Error())
	}

	track, err := h.scheduler.AddToQueue(ctx, guildID, notificationChannelID, rawURL,
		blockPlaylists)
	if err != nil {
		return respondError(r, userMessage(err))
	}

	if _, err := h.scheduler.Play(ctx, guildID); err != nil {
		return respondError(r, userMessage(err))
	}

	var description string
	if blockPlaylists {
		description = fmt.Sprintf("Added %s to the queue.", trackLink(track))
	} else {
		description = fmt.Sprintf("Buffered a playlist starting with %s.", trackLink(track))
	}

	return respondSuccess(r, description)
}

// HandleSkip handles the /skip command.
func (h *Handlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	next, err := h.scheduler.Skip(ctx, guildID)
	if err != nil {
		return respondError(r, userMessage(err))
	}

	if next == nil {
		return respondSuccess(r, "Skipped. The queue is empty.")
	}
	return respondSuccess(r, fmt.Sprintf("Skipped. Now playing %s.", trackLink(next)))
}

// HandleStop handles the /stop command.
func (h *Handlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.scheduler.Destroy(ctx, guildID); err != nil {
		return respondError(r, userMessage(err))
	}

	if err := h.voice.LeaveChannel(ctx, guildID); err != nil {
		return respondError(r, err.Error())
	}

	return respondSuccess(r, "Stopped playback and cleared the queue.")
}

// HandleShuffle handles the /shuffle command.
func (h *Handlers) HandleShuffle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.scheduler.Shuffle(guildID); err != nil {
		return respondError(r, userMessage(err))
	}

	return respondSuccess(r, "Shuffled the queue.")
}

// HandleQueue handles the /queue command.
func (h *Handlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	status, err := h.scheduler.Status(guildID, queueDisplayLimit)
	if err != nil {
		return respondError(r, userMessage(err))
	}

	var sb strings.Builder
	if status.Current != nil {
		fmt.Fprintf(&sb, "**Now playing:** %s\n\n", status.Current.Display())
	}

	if len(status.Upcoming) == 0 {
		sb.WriteString("The queue is empty.")
	} else {
		for n, track := range status.Upcoming {
			fmt.Fprintf(&sb, "%d. %s (%s)\n", n+1, track.Display(), track.FormattedDuration())
		}
		remaining := status.QueueSize + status.PlaylistSize - len(status.Upcoming)
		if remaining > 0 {
			fmt.Fprintf(&sb, "\n...and %d more.", remaining)
		}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Queue",
					Description: sb.String(),
					Color:       colorSuccess,
				},
			},
		},
	})
}

// userMessage maps scheduling and resolution errors to the messages shown
// in Discord.
func userMessage(err error) string {
	switch {
	case errors.Is(err, usecases.ErrInvalidURL):
		return "Invalid URL."
	case errors.Is(err, usecases.ErrNotFound):
		return "Not found."
	case errors.Is(err, usecases.ErrTimedOut):
		return "Timed out."
	case errors.Is(err, usecases.ErrSongNotFound):
		return "Song not found."
	case errors.Is(err, usecases.ErrPlaylistNotFound):
		return "Playlist not found."
	case errors.Is(err, usecases.ErrNothingResolved):
		return "No tracks were resolved."
	case errors.Is(err, usecases.ErrNoSession):
		return "Nothing is queued for this server."
	default:
		return err.Error()
	}
}

func trackLink(track *domain.Track) string {
	if track.URI != "" {
		return fmt.Sprintf("[%s](%s)", track.Display(), track.URI)
	}
	return fmt.Sprintf("**%s**", track.Display())
}

func respondSuccess(r bot.Responder, description string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: description,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}
