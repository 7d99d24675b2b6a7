package domain

import "time"

// Notification is addressed to a user identity, not a room. Live delivery is
// the hub's job; the durable record belongs to the store.
type Notification struct {
	ID        string    `json:"id,omitempty" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Kind      string    `json:"kind" db:"kind"`
	Body      string    `json:"body" db:"body"`
	RoomID    string    `json:"room_id,omitempty" db:"room_id"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
