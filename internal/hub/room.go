package hub

import (
	"sync"
	"time"

	"github.com/chathive/chat-service/internal/domain"
)

type roomState int

const (
	roomActive roomState = iota
	roomIdlePending
	roomEvicted
)

// Room is a named broadcast domain. Members, history and the idle timer are
// mutated only under the room's own mutex; the registry lock is never held
// while touching them.
type Room struct {
	ID string

	mu           sync.Mutex
	state        roomState
	members      map[string]Conn
	history      []domain.Message
	historyCap   int // 0 = unbounded
	lastActivity time.Time
	idleTimer    *time.Timer

	// durable is set once the store confirms a chatroom record exists for
	// this ID. Ephemeral rooms lose history permanently on eviction.
	durable     bool
	durableOnce sync.Once
}

func newRoom(id string, historyCap int) *Room {
	return &Room{
		ID:           id,
		members:      make(map[string]Conn),
		historyCap:   historyCap,
		lastActivity: time.Now(),
	}
}

func (r *Room) evicted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == roomEvicted
}

// MemberCount returns the number of live connections in the room.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Snapshot returns a copy of the room's buffered history, reflecting every
// append ordered before the call.
func (r *Room) Snapshot() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() []domain.Message {
	out := make([]domain.Message, len(r.history))
	copy(out, r.history)
	return out
}

// appendLocked adds a message to the history, dropping the oldest entry when
// the configured cap is reached. Never reorders, never deduplicates.
func (r *Room) appendLocked(msg domain.Message) {
	if r.historyCap > 0 && len(r.history) >= r.historyCap {
		n := copy(r.history, r.history[1:])
		r.history = r.history[:n]
	}
	r.history = append(r.history, msg)
}

// broadcastLocked delivers ev to every member except exceptID (pass "" to
// include everyone). Delivery happens under the room lock so the recipient set
// cannot interleave with a concurrent join or leave; Conn.Send never blocks.
func (r *Room) broadcastLocked(ev Event, exceptID string) {
	for id, c := range r.members {
		if id == exceptID {
			continue
		}
		_ = c.Send(ev) // best-effort
	}
}

func (r *Room) touchLocked() {
	r.lastActivity = time.Now()
}
