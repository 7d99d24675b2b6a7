package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chathive/chat-service/internal/domain"
	"github.com/chathive/chat-service/internal/metrics"
)

// stampLayout is the wall-clock display format used by system notices. It is
// presentation only; ordering always goes by Message.SentAt.
const stampLayout = "3:04 PM"

// Join adds the connection to the room, creating it on first reference.
// Buffered history is replayed to the joiner only, then the updated member
// count goes to everyone. Durable membership is updated off the hot path.
func (h *Hub) Join(c Conn, p JoinRoomPayload) {
	userID := c.UserID()
	if userID == "" {
		userID = p.UserID
	}

	var r *Room
	for {
		r = h.registry.ResolveOrCreate(p.RoomID)
		r.mu.Lock()
		if r.state == roomEvicted {
			// Lost the race with the idle timer; the registry hands out a
			// fresh instance on the next pass.
			r.mu.Unlock()
			continue
		}
		h.cancelIdleLocked(r)
		r.members[c.ID()] = c
		r.touchLocked()
		_ = c.Send(Event{Type: EvMessageHistory, Payload: HistoryPayload{RoomID: r.ID, Messages: r.snapshotLocked()}})
		r.broadcastLocked(Event{Type: EvMemberCount, Payload: MemberCountPayload{RoomID: r.ID, Count: len(r.members)}}, "")
		r.mu.Unlock()
		break
	}

	h.trackJoin(c.ID(), p.RoomID, p.DisplayName)
	h.resolveDurable(r, userID)

	slog.Info("joined room", "conn", c.ID(), "room", p.RoomID, "name", p.DisplayName)
}

// resolveDurable checks once per room whether a durable chatroom record
// backs it, and if so records the joining user's membership. Best-effort.
func (h *Hub) resolveDurable(r *Room, userID string) {
	r.durableOnce.Do(func() {
		h.async("resolve room", func(ctx context.Context) error {
			_, err := h.store.FindRoomByID(ctx, r.ID)
			if errors.Is(err, domain.ErrRoomNotFound) {
				return nil // ephemeral room, nothing to track
			}
			if err != nil {
				return err
			}
			r.mu.Lock()
			r.durable = true
			r.mu.Unlock()
			if userID != "" {
				return h.store.AddMember(ctx, r.ID, userID)
			}
			return nil
		})
	})

	if userID == "" || !h.isDurable(r) {
		return
	}
	h.async("add member", func(ctx context.Context) error {
		return h.store.AddMember(ctx, r.ID, userID)
	})
}

func (h *Hub) isDurable(r *Room) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.durable
}

// Leave removes the connection from the room and tells the remaining members.
func (h *Hub) Leave(connID string, p LeaveRoomPayload) {
	name := p.DisplayName
	if name == "" {
		name = h.displayNameOf(connID)
	}
	h.leaveRoom(connID, p.RoomID, name)
}

func (h *Hub) leaveRoom(connID, roomID, displayName string) {
	h.trackLeave(connID, roomID)

	r, ok := h.registry.Get(roomID)
	if !ok {
		return
	}
	r.mu.Lock()
	if _, member := r.members[connID]; !member {
		r.mu.Unlock()
		return
	}
	delete(r.members, connID)
	r.touchLocked()

	if displayName != "" {
		msg := h.systemMessage(roomID, fmt.Sprintf("%s has left the chat", displayName))
		r.appendLocked(msg)
		r.broadcastLocked(Event{Type: EvMessage, Payload: msg}, "")
	}
	r.broadcastLocked(Event{Type: EvMemberCount, Payload: MemberCountPayload{RoomID: roomID, Count: len(r.members)}}, "")

	if len(r.members) == 0 {
		h.armIdleLocked(r)
	}
	r.mu.Unlock()

	slog.Info("left room", "conn", connID, "room", roomID)
}

// SendMessage appends the message to the room's history and fans it out to
// every member, the sender included. Durable persistence happens off-path.
func (h *Hub) SendMessage(c Conn, p SendMessagePayload) {
	kind := domain.MessageKind(p.Kind)
	if kind == "" {
		kind = domain.KindUser
	}

	sender := p.Sender
	if uid := c.UserID(); uid != "" {
		sender.UserID = uid
	}
	if sender.Username == "" {
		sender.Username = h.displayNameOf(c.ID())
	}

	msg := domain.Message{
		ID:     uuid.NewString(),
		RoomID: p.RoomID,
		Sender: sender,
		Text:   p.Text,
		Kind:   kind,
		SentAt: time.Now(),
	}

	var durable bool
	for {
		r := h.registry.ResolveOrCreate(p.RoomID)
		r.mu.Lock()
		if r.state == roomEvicted {
			r.mu.Unlock()
			continue
		}
		h.cancelIdleLocked(r)
		r.appendLocked(msg)
		r.touchLocked()
		r.broadcastLocked(Event{Type: EvMessage, Payload: msg}, "")
		durable = r.durable
		r.mu.Unlock()
		break
	}

	metrics.MessagesTotal.WithLabelValues(string(kind)).Inc()

	if kind == domain.KindUser && durable && sender.UserID != "" {
		h.async("append message", func(ctx context.Context) error {
			return h.store.AppendMessage(ctx, msg)
		})
	}
}

// SendSystemMessage broadcasts an operator notice. It is neither buffered nor
// persisted.
func (h *Hub) SendSystemMessage(p SystemMessagePayload) {
	r, ok := h.registry.Get(p.RoomID)
	if !ok {
		return
	}
	msg := h.systemMessage(p.RoomID, p.Text)
	r.mu.Lock()
	r.touchLocked()
	r.broadcastLocked(Event{Type: EvMessage, Payload: msg}, "")
	r.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(domain.KindSystem)).Inc()
}

// Typing tells the other members that someone is composing. Transient: never
// stored, never echoed to the sender.
func (h *Hub) Typing(connID string, p PresencePayload) {
	r, ok := h.registry.Get(p.RoomID)
	if !ok {
		return
	}
	r.mu.Lock()
	r.touchLocked()
	r.broadcastLocked(Event{Type: EvUserTyping, Payload: TypingPayload{RoomID: p.RoomID, DisplayName: p.DisplayName}}, connID)
	r.mu.Unlock()
}

// Away follows the leave notice path without touching membership.
func (h *Hub) Away(connID string, p PresencePayload) {
	h.presenceNotice(p.RoomID, fmt.Sprintf("%s is away", p.DisplayName))
}

// Returned is the counterpart of Away.
func (h *Hub) Returned(connID string, p PresencePayload) {
	h.presenceNotice(p.RoomID, fmt.Sprintf("%s has returned", p.DisplayName))
}

func (h *Hub) presenceNotice(roomID, text string) {
	r, ok := h.registry.Get(roomID)
	if !ok {
		return
	}
	msg := h.systemMessage(roomID, text)
	r.mu.Lock()
	r.appendLocked(msg)
	r.touchLocked()
	r.broadcastLocked(Event{Type: EvMessage, Payload: msg}, "")
	r.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(domain.KindSystem)).Inc()
}

func (h *Hub) systemMessage(roomID, text string) domain.Message {
	now := time.Now()
	return domain.Message{
		ID:     uuid.NewString(),
		RoomID: roomID,
		Text:   text,
		Kind:   domain.KindSystem,
		SentAt: now,
		Stamp:  now.Format(stampLayout),
	}
}
