// Package hub is the realtime room coordinator: it groups live connections
// into rooms, fans out chat and presence events, buffers per-room history for
// late joiners and reclaims rooms that go idle. Durable persistence is a
// best-effort collaborator; the hub stays correct when the store fails or lags.
package hub

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chathive/chat-service/internal/metrics"
	"github.com/chathive/chat-service/internal/store"
)

const (
	defaultIdleWindow   = 30 * time.Minute
	defaultStoreTimeout = 5 * time.Second
)

type Options struct {
	// IdleWindow is how long a room may sit with zero members before its
	// in-memory state is dropped.
	IdleWindow time.Duration
	// HistoryLimit caps the buffered messages per room; 0 keeps everything.
	HistoryLimit int
}

type Hub struct {
	registry   *Registry
	store      store.Store
	idleWindow time.Duration

	mu       sync.RWMutex
	sessions map[string]*session        // connID -> session
	users    map[string]map[string]Conn // userID -> connID -> conn
}

func New(st store.Store, opts Options) *Hub {
	if opts.IdleWindow <= 0 {
		opts.IdleWindow = defaultIdleWindow
	}
	return &Hub{
		registry:   NewRegistry(opts.HistoryLimit),
		store:      st,
		idleWindow: opts.IdleWindow,
		sessions:   make(map[string]*session),
		users:      make(map[string]map[string]Conn),
	}
}

// Registry exposes room bookkeeping for the HTTP surface.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// CreateEphemeralRoom registers a short-lived room under a generated token and
// arms its idle timer right away: an ephemeral room nobody ever joins dies
// after the idle window like any other empty room.
func (h *Hub) CreateEphemeralRoom() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	r := h.registry.ResolveOrCreate(id)
	r.mu.Lock()
	h.armIdleLocked(r)
	r.mu.Unlock()

	slog.Info("ephemeral room created", "room", id)
	return id
}

// Register admits an already-authenticated connection.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.sessions[c.ID()] = &session{conn: c, rooms: make(map[string]struct{})}
	if uid := c.UserID(); uid != "" {
		conns, ok := h.users[uid]
		if !ok {
			conns = make(map[string]Conn)
			h.users[uid] = conns
		}
		conns[c.ID()] = c
	}
	h.mu.Unlock()

	metrics.ConnectionsLive.Inc()
	slog.Info("connection registered", "conn", c.ID(), "user", c.UserID())
}

// Unregister runs the leave path for every room the connection occupied,
// exactly once each, then drops the session. Abrupt disconnects and explicit
// closes converge here.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	s, ok := h.sessions[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, connID)
	if uid := s.conn.UserID(); uid != "" {
		if conns, ok := h.users[uid]; ok {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(h.users, uid)
			}
		}
	}
	rooms := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		rooms = append(rooms, id)
	}
	name := s.displayName
	h.mu.Unlock()

	for _, roomID := range rooms {
		h.leaveRoom(connID, roomID, name)
	}

	metrics.ConnectionsLive.Dec()
	slog.Info("connection unregistered", "conn", connID, "rooms", len(rooms))
}

// async runs a best-effort durable write off the broadcast path. Failures are
// logged and contained.
func (h *Hub) async(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultStoreTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Warn("durable write failed", "op", op, "err", err)
		}
	}()
}

func (h *Hub) trackJoin(connID, roomID, displayName string) {
	h.mu.Lock()
	if s, ok := h.sessions[connID]; ok {
		s.rooms[roomID] = struct{}{}
		if displayName != "" {
			s.displayName = displayName
		}
	}
	h.mu.Unlock()
}

func (h *Hub) trackLeave(connID, roomID string) {
	h.mu.Lock()
	if s, ok := h.sessions[connID]; ok {
		delete(s.rooms, roomID)
	}
	h.mu.Unlock()
}

func (h *Hub) displayNameOf(connID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.sessions[connID]; ok {
		return s.displayName
	}
	return ""
}
