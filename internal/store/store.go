package store

import (
	"context"

	"github.com/chathive/chat-service/internal/domain"
)

// Store is the durable persistence collaborator. Every call made from the
// realtime path is best-effort: the hub logs failures and carries on, so an
// implementation may be slow or down without affecting broadcasts.
//
// PostgresStore and MemoryStore implement this interface.
type Store interface {
	Close()
	Ping(ctx context.Context) error

	// Rooms
	FindRoomByID(ctx context.Context, id string) (*domain.ChatRoom, error)
	AddMember(ctx context.Context, roomID, userID string) error

	// Messages
	AppendMessage(ctx context.Context, msg domain.Message) error
	ListMessages(ctx context.Context, roomID, cursor string, limit int) ([]domain.Message, string, error)

	// Users / notifications
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	AppendNotification(ctx context.Context, n domain.Notification) error
}
