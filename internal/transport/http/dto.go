package http

import (
	"time"

	"github.com/chathive/chat-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type TemporaryRoomResponse struct {
	ChatroomID string `json:"chatroom_id"`
}

type MessageItem struct {
	ID       string    `json:"id"`
	RoomID   string    `json:"room_id"`
	Sender   string    `json:"sender"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}

type MessagesResponse struct {
	Items      []MessageItem `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type NotifyRequest struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	Body   string `json:"body"`
	RoomID string `json:"room_id,omitempty"`
}

type RoomStateResponse struct {
	RoomID      string `json:"room_id"`
	MemberCount int    `json:"member_count"`
}

func toMessageItem(m domain.Message) MessageItem {
	return MessageItem{
		ID:       m.ID,
		RoomID:   m.RoomID,
		Sender:   m.Sender.UserID,
		Username: m.Sender.Username,
		Text:     m.Text,
		SentAt:   m.SentAt,
	}
}
