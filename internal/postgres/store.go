package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chathive/chat-service/internal/domain"
)

// Store is the pgx-backed persistence collaborator.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) FindRoomByID(ctx context.Context, id string) (*domain.ChatRoom, error) {
	var rm domain.ChatRoom
	query := `SELECT id, name, originator_id, is_public, created_at FROM chatrooms WHERE id=$1`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&rm.ID, &rm.Name, &rm.OriginatorID, &rm.IsPublic, &rm.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (s *Store) AddMember(ctx context.Context, roomID, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chatroom_members (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, roomID, userID)
	return err
}

func (s *Store) AppendMessage(ctx context.Context, msg domain.Message) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chatroom_messages (room_id, sender_id, username, name, email, text, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, msg.RoomID, msg.Sender.UserID, msg.Sender.Username, msg.Sender.Name, msg.Sender.Email, msg.Text, msg.SentAt)
	return err
}

// ListMessages returns persisted history oldest-first with keyset pagination
// on (sent_at, id).
func (s *Store) ListMessages(ctx context.Context, roomID, cursor string, limit int) ([]domain.Message, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	cur, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}
	const query = `
		SELECT id, room_id, sender_id, username, name, email, text, sent_at
		FROM chatroom_messages
		WHERE room_id = $1
		  AND (
		    $2::timestamptz IS NULL
		    OR sent_at > $2
		    OR (sent_at = $2 AND id > $3)
		  )
		ORDER BY sent_at ASC, id ASC
		LIMIT $4
	`

	var sentAt any
	var id any
	if cur != nil {
		sentAt = cur.SentAt
		id = cur.ID
	}

	rows, err := s.db.Query(ctx, query, roomID, sentAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Sender.UserID, &m.Sender.Username,
			&m.Sender.Name, &m.Sender.Email, &m.Text, &m.SentAt); err != nil {
			return nil, "", err
		}
		m.Kind = domain.KindUser
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		if c, e := EncodeCursor(Cursor{SentAt: last.SentAt, ID: last.ID}); e == nil {
			next = c
		}
	}
	return out, next, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	query := `SELECT id, username, name, email FROM users WHERE id=$1`
	err := s.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name, &u.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) AppendNotification(ctx context.Context, n domain.Notification) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_notifications (user_id, kind, body, room_id, read)
		VALUES ($1, $2, $3, $4, $5)
	`, n.UserID, n.Kind, n.Body, n.RoomID, n.Read)
	return err
}
