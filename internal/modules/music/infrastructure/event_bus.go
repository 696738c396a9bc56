package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/radiopele/internal/modules/music/application/ports"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// It implements both EventPublisher and EventSubscriber interfaces.
type ChannelEventBus struct {
	// Channels for event delivery
	trackEnded      chan domain.TrackEndedEvent
	playbackStarted chan domain.PlaybackStartedEvent
	queueDrained    chan domain.QueueDrainedEvent
	sessionError    chan domain.SessionErrorEvent

	// Handler slices for callback-based subscription
	trackEndedHandlers      []func(context.Context, domain.TrackEndedEvent)
	playbackStartedHandlers []func(context.Context, domain.PlaybackStartedEvent)
	queueDrainedHandlers    []func(context.Context, domain.QueueDrainedEvent)
	sessionErrorHandlers    []func(context.Context, domain.SessionErrorEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackEnded:      make(chan domain.TrackEndedEvent, bufferSize),
		playbackStarted: make(chan domain.PlaybackStartedEvent, bufferSize),
		queueDrained:    make(chan domain.QueueDrainedEvent, bufferSize),
		sessionError:    make(chan domain.SessionErrorEvent, bufferSize),
		ctx:             ctx,
		cancel:          cancel,
	}

	// Start dispatcher goroutines
	bus.startDispatchers()

	return bus
}

// startDispatchers starts goroutines that dispatch events to registered handlers.
func (b *ChannelEventBus) startDispatchers() {
	b.wg.Add(4)

	go b.dispatchTrackEnded()
	go b.dispatchPlaybackStarted()
	go b.dispatchQueueDrained()
	go b.dispatchSessionError()
}

func (b *ChannelEventBus) dispatchTrackEnded() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackEnded:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackEndedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchPlaybackStarted() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.playbackStarted:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.playbackStartedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchQueueDrained() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.queueDrained:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.queueDrainedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchSessionError() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.sessionError:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.sessionErrorHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

// --- EventPublisher interface ---

// PublishTrackEnded publishes a TrackEndedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishTrackEnded(event domain.TrackEndedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnded")
		return
	}

	select {
	case b.trackEnded <- event:
		slog.Debug("published event", "type", "TrackEnded", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnded")
	}
}

// PublishPlaybackStarted publishes a PlaybackStartedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishPlaybackStarted(event domain.PlaybackStartedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "PlaybackStarted")
		return
	}

	select {
	case b.playbackStarted <- event:
		slog.Debug("published event", "type", "PlaybackStarted", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "PlaybackStarted")
	}
}

// PublishQueueDrained publishes a QueueDrainedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishQueueDrained(event domain.QueueDrainedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "QueueDrained")
		return
	}

	select {
	case b.queueDrained <- event:
		slog.Debug("published event", "type", "QueueDrained", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "QueueDrained")
	}
}

// PublishSessionError publishes a SessionErrorEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *ChannelEventBus) PublishSessionError(event domain.SessionErrorEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "SessionError")
		return
	}

	select {
	case b.sessionError <- event:
		slog.Debug("published event", "type", "SessionError", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "SessionError")
	}
}

// --- EventSubscriber interface ---

// OnTrackEnded registers a handler for TrackEndedEvent.
func (b *ChannelEventBus) OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEndedHandlers = append(b.trackEndedHandlers, handler)
}

// OnPlaybackStarted registers a handler for PlaybackStartedEvent.
func (b *ChannelEventBus) OnPlaybackStarted(
	handler func(context.Context, domain.PlaybackStartedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playbackStartedHandlers = append(b.playbackStartedHandlers, handler)
}

// OnQueueDrained registers a handler for QueueDrainedEvent.
func (b *ChannelEventBus) OnQueueDrained(handler func(context.Context, domain.QueueDrainedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueDrainedHandlers = append(b.queueDrainedHandlers, handler)
}

// OnSessionError registers a handler for SessionErrorEvent.
func (b *ChannelEventBus) OnSessionError(handler func(context.Context, domain.SessionErrorEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessionErrorHandlers = append(b.sessionErrorHandlers, handler)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	// Cancel context to stop dispatchers
	b.cancel()

	// Close channels to unblock any pending reads
	close(b.trackEnded)
	close(b.playbackStarted)
	close(b.queueDrained)
	close(b.sessionError)

	// Wait for dispatchers to finish
	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
