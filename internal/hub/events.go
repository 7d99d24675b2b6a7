package hub

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chathive/chat-service/internal/domain"
)

// Event types accepted from connections.
const (
	EvJoinRoom      = "join-room"
	EvLeaveRoom     = "leave-room"
	EvSendMessage   = "send-message"
	EvSystemMessage = "send-system-message"
	EvUserTyping    = "user-typing"
	EvUserAway      = "user-away"
	EvUserReturned  = "user-returned"
	EvSignalOffer   = "signal-offer"
	EvSignalAnswer  = "signal-answer"
	EvSignalCand    = "signal-candidate"
)

// Event types emitted to connections.
const (
	EvMessage        = "message"
	EvMessageHistory = "message-history"
	EvMemberCount    = "member-count-updated"
	EvNotification   = "notification"
)

// Event is the wire envelope shared by both directions.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

var ErrMalformedEvent = errors.New("malformed event")

type JoinRoomPayload struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name"`
	UserID      string `json:"user_id,omitempty"`
}

func (p JoinRoomPayload) Validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: join-room: missing room_id", ErrMalformedEvent)
	}
	if p.DisplayName == "" {
		return fmt.Errorf("%w: join-room: missing display_name", ErrMalformedEvent)
	}
	return nil
}

type LeaveRoomPayload struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name,omitempty"`
}

func (p LeaveRoomPayload) Validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: leave-room: missing room_id", ErrMalformedEvent)
	}
	return nil
}

type SendMessagePayload struct {
	RoomID string        `json:"room_id"`
	Sender domain.Sender `json:"sender"`
	Text   string        `json:"text"`
	Kind   string        `json:"kind,omitempty"`
}

func (p SendMessagePayload) Validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: send-message: missing room_id", ErrMalformedEvent)
	}
	if p.Text == "" {
		return fmt.Errorf("%w: send-message: missing text", ErrMalformedEvent)
	}
	switch p.Kind {
	case "", string(domain.KindUser), string(domain.KindSystem):
	default:
		return fmt.Errorf("%w: send-message: unknown kind %q", ErrMalformedEvent, p.Kind)
	}
	return nil
}

type SystemMessagePayload struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

func (p SystemMessagePayload) Validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: send-system-message: missing room_id", ErrMalformedEvent)
	}
	if p.Text == "" {
		return fmt.Errorf("%w: send-system-message: missing text", ErrMalformedEvent)
	}
	return nil
}

// PresencePayload covers user-typing, user-away and user-returned; they share
// a shape.
type PresencePayload struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name"`
}

func (p PresencePayload) Validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: presence: missing room_id", ErrMalformedEvent)
	}
	if p.DisplayName == "" {
		return fmt.Errorf("%w: presence: missing display_name", ErrMalformedEvent)
	}
	return nil
}

// SignalPayload carries call-setup data. Data is relayed verbatim and never
// parsed.
type SignalPayload struct {
	RoomID string          `json:"room_id"`
	From   string          `json:"from,omitempty"`
	Data   json.RawMessage `json:"data"`
}

func (p SignalPayload) Validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: signal: missing room_id", ErrMalformedEvent)
	}
	if len(p.Data) == 0 {
		return fmt.Errorf("%w: signal: missing data", ErrMalformedEvent)
	}
	return nil
}

type HistoryPayload struct {
	RoomID   string           `json:"room_id"`
	Messages []domain.Message `json:"messages"`
}

type MemberCountPayload struct {
	RoomID string `json:"room_id"`
	Count  int    `json:"count"`
}

type TypingPayload struct {
	RoomID      string `json:"room_id"`
	DisplayName string `json:"display_name"`
}
