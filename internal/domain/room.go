package domain

import "time"

// ChatRoom is the durable chatroom record owned by the store. In-memory room
// state (live members, buffered history, idle timer) lives in the hub and is
// keyed by the same ID.
type ChatRoom struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	OriginatorID string    `db:"originator_id"`
	IsPublic     bool      `db:"is_public"`
	CreatedAt    time.Time `db:"created_at"`
}
