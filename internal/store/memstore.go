package store

import (
	"sync"

	"bombreveal/internal/room"
)

// MemoryStore is the process-wide room table. Its lock guards only the map,
// never a room's own state.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]*room.Room{},
	}
}

func (m *MemoryStore) GetRoom(code string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// InsertRoom registers r unless its code is already in use.
func (m *MemoryStore) InsertRoom(r *room.Room) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.rooms[r.Code]; taken {
		return false
	}
	m.rooms[r.Code] = r
	return true
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
