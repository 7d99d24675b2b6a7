package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chathive/chat-service/internal/domain"
)

func seedMessages(t *testing.T, s *MemoryStore, roomID string, n int) {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := s.AppendMessage(context.Background(), domain.Message{
			RoomID: roomID,
			Sender: domain.Sender{UserID: "u1", Username: "ann"},
			Text:   fmt.Sprintf("msg-%d", i),
			Kind:   domain.KindUser,
			SentAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestListMessagesPagination(t *testing.T) {
	s := NewMemoryStore()
	seedMessages(t, s, "r1", 7)

	var got []domain.Message
	cursor := ""
	pages := 0
	for {
		page, next, err := s.ListMessages(context.Background(), "r1", cursor, 3)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		got = append(got, page...)
		pages++
		if next == "" {
			break
		}
		cursor = next
	}

	if pages != 3 {
		t.Fatalf("walked %d pages, want 3", pages)
	}
	if len(got) != 7 {
		t.Fatalf("collected %d messages, want 7", len(got))
	}
	for i, m := range got {
		if want := fmt.Sprintf("msg-%d", i); m.Text != want {
			t.Fatalf("position %d holds %q, want %q", i, m.Text, want)
		}
	}
}

func TestListMessagesInvalidCursor(t *testing.T) {
	s := NewMemoryStore()
	seedMessages(t, s, "r1", 2)

	for _, cur := range []string{"nonsense", "-4"} {
		if _, _, err := s.ListMessages(context.Background(), "r1", cur, 10); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("cursor %q: got %v, want ErrInvalidCursor", cur, err)
		}
	}
}

func TestListMessagesEmptyRoom(t *testing.T) {
	s := NewMemoryStore()
	page, next, err := s.ListMessages(context.Background(), "empty", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 0 || next != "" {
		t.Fatalf("empty room returned %d messages, next=%q", len(page), next)
	}
}

func TestAddMemberUnknownRoom(t *testing.T) {
	s := NewMemoryStore()
	if err := s.AddMember(context.Background(), "ghost", "u1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("got %v, want ErrRoomNotFound", err)
	}
}

func TestFindRoomAndUser(t *testing.T) {
	s := NewMemoryStore()
	s.PutRoom(domain.ChatRoom{ID: "r1", Name: "general", OriginatorID: "u1"})
	s.PutUser(domain.User{ID: "u1", Username: "ann", Email: "ann@example.com"})

	r, err := s.FindRoomByID(context.Background(), "r1")
	if err != nil || r.Name != "general" {
		t.Fatalf("FindRoomByID: %+v, %v", r, err)
	}
	if _, err := s.FindRoomByID(context.Background(), "r2"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("missing room: got %v", err)
	}

	u, err := s.FindUserByID(context.Background(), "u1")
	if err != nil || u.Username != "ann" {
		t.Fatalf("FindUserByID: %+v, %v", u, err)
	}
	if _, err := s.FindUserByID(context.Background(), "u2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("missing user: got %v", err)
	}
}

func TestAppendNotificationAssignsDefaults(t *testing.T) {
	s := NewMemoryStore()
	if err := s.AppendNotification(context.Background(), domain.Notification{UserID: "u1", Kind: "mention", Body: "hey"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := s.Notifications("u1")
	if len(got) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(got))
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("defaults not assigned: %+v", got[0])
	}
}
