package ports

import (
	"context"

	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// EventPublisher publishes playback events to the module's event bus.
type EventPublisher interface {
	PublishTrackEnded(event domain.TrackEndedEvent)
	PublishPlaybackStarted(event domain.PlaybackStartedEvent)
	PublishQueueDrained(event domain.QueueDrainedEvent)
	PublishSessionError(event domain.SessionErrorEvent)
}

// EventSubscriber registers handlers for playback events.
type EventSubscriber interface {
	OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent))
	OnPlaybackStarted(handler func(context.Context, domain.PlaybackStartedEvent))
	OnQueueDrained(handler func(context.Context, domain.QueueDrainedEvent))
	OnSessionError(handler func(context.Context, domain.SessionErrorEvent))
}
