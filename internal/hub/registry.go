package hub

import (
	"sync"

	"github.com/chathive/chat-service/internal/metrics"
)

// Registry is the single authority for room existence. It guards only the
// id -> Room mapping; room internals have their own lock.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	historyCap int
}

func NewRegistry(historyCap int) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		historyCap: historyCap,
	}
}

// ResolveOrCreate returns the live room for id, creating it on first use.
// Concurrent calls for the same unseen id observe a single instance. An
// evicted instance still present in the map is replaced: EVICTED is terminal
// for the old room, the caller gets a fresh one with empty history.
func (reg *Registry) ResolveOrCreate(id string) *Room {
	reg.mu.RLock()
	r, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if ok && !r.evicted() {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok = reg.rooms[id]; ok && !r.evicted() {
		return r
	}
	r = newRoom(id, reg.historyCap)
	reg.rooms[id] = r
	metrics.RoomsLive.Set(float64(len(reg.rooms)))
	return r
}

// Get returns the room for id without creating one.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Remove deletes the in-memory entry for id. No-op on unknown ids.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
	metrics.RoomsLive.Set(float64(len(reg.rooms)))
}

// removeMatch deletes the entry for id only while it still maps to r,
// so eviction of a stale instance cannot drop a recreated room.
func (reg *Registry) removeMatch(id string, r *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if cur, ok := reg.rooms[id]; ok && cur == r {
		delete(reg.rooms, id)
	}
	metrics.RoomsLive.Set(float64(len(reg.rooms)))
}

// Len reports how many rooms are held in memory.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
