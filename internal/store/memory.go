package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chathive/chat-service/internal/domain"
)

// MemoryStore keeps everything in process memory. It backs the dev mode and
// the test suite; interface parity with PostgresStore is the point.
type MemoryStore struct {
	mu            sync.RWMutex
	rooms         map[string]domain.ChatRoom
	members       map[string]map[string]struct{} // roomID -> set of userIDs
	messages      map[string][]domain.Message    // roomID -> append order
	users         map[string]domain.User
	notifications map[string][]domain.Notification // userID -> append order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:         make(map[string]domain.ChatRoom),
		members:       make(map[string]map[string]struct{}),
		messages:      make(map[string][]domain.Message),
		users:         make(map[string]domain.User),
		notifications: make(map[string][]domain.Notification),
	}
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) FindRoomByID(ctx context.Context, id string) (*domain.ChatRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &r, nil
}

func (s *MemoryStore) AddMember(ctx context.Context, roomID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return domain.ErrRoomNotFound
	}
	set, ok := s.members[roomID]
	if !ok {
		set = make(map[string]struct{})
		s.members[roomID] = set
	}
	set[userID] = struct{}{}
	return nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	s.messages[msg.RoomID] = append(s.messages[msg.RoomID], msg)
	return nil
}

// ListMessages returns persisted history oldest-first. The cursor is the index
// to resume from.
func (s *MemoryStore) ListMessages(ctx context.Context, roomID, cursor string, limit int) ([]domain.Message, string, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.messages[roomID]
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return nil, "", ErrInvalidCursor
		}
		start = n
	}
	if start >= len(all) {
		return nil, "", nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]domain.Message, end-start)
	copy(out, all[start:end])

	var next string
	if end < len(all) {
		next = strconv.Itoa(end)
	}
	return out, next, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) AppendNotification(ctx context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.notifications[n.UserID] = append(s.notifications[n.UserID], n)
	return nil
}

// PutRoom and PutUser seed fixtures; the realtime core never creates durable
// records itself.
func (s *MemoryStore) PutRoom(r domain.ChatRoom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
}

func (s *MemoryStore) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Notifications returns a copy of a user's notification records.
func (s *MemoryStore) Notifications(userID string) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.notifications[userID]))
	copy(out, s.notifications[userID])
	return out
}
