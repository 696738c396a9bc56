package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/radiopele/internal/modules/music/domain"
)

// MemoryRepository is an in-memory implementation of SessionRepository.
type MemoryRepository struct {
	mu              sync.RWMutex
	sessions        map[snowflake.ID]*domain.Session
	maxPlaylistSize int
}

// NewMemoryRepository creates a new MemoryRepository. Sessions it creates cap
// their playlist buffer at maxPlaylistSize tracks.
func NewMemoryRepository(maxPlaylistSize int) *MemoryRepository {
	return &MemoryRepository{
		sessions:        make(map[snowflake.ID]*domain.Session),
		maxPlaylistSize: maxPlaylistSize,
	}
}

// GetOrCreate returns the Session for the given guild, creating an idle one
// if none exists yet.
func (r *MemoryRepository) GetOrCreate(guildID snowflake.ID) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[guildID]
	if !ok {
		session = domain.NewSession(guildID, r.maxPlaylistSize)
		r.sessions[guildID] = session
	}
	return session
}

// Get returns the Session for the given guild, or nil if not exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sessions[guildID]
}

// Delete removes the Session for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, guildID)
}

// Count returns the number of sessions (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)
