package domain

import "time"

type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindSystem MessageKind = "system"
)

// Sender carries the display fields of the author, resolved once when the
// message is accepted. They are never re-resolved on read.
type Sender struct {
	UserID   string `json:"user_id,omitempty" db:"user_id"`
	Username string `json:"username,omitempty" db:"username"`
	Name     string `json:"name,omitempty" db:"name"`
	Email    string `json:"email,omitempty" db:"email"`
}

// Message is one entry of a room's ordered history. Immutable once appended.
// SentAt is assigned by the service at accept time, never client-supplied.
// Stamp is a wall-clock display string used by system notices; ordering always
// goes by SentAt.
type Message struct {
	ID     string      `json:"id,omitempty" db:"id"`
	RoomID string      `json:"room_id" db:"room_id"`
	Sender Sender      `json:"sender"`
	Text   string      `json:"text" db:"text"`
	Kind   MessageKind `json:"kind" db:"kind"`
	SentAt time.Time   `json:"sent_at" db:"sent_at"`
	Stamp  string      `json:"stamp,omitempty"`
}
