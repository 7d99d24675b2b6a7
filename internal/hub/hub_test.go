package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/chathive/chat-service/internal/domain"
	"github.com/chathive/chat-service/internal/store"
)

// fakeConn records every event delivered to it.
type fakeConn struct {
	id     string
	userID string

	mu     sync.Mutex
	events []Event
}

func newFakeConn(id, userID string) *fakeConn {
	return &fakeConn{id: id, userID: userID}
}

func (c *fakeConn) ID() string     { return c.id }
func (c *fakeConn) UserID() string { return c.userID }
func (c *fakeConn) Close() error   { return nil }

func (c *fakeConn) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) eventsOfType(t string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, ev := range c.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (c *fakeConn) lastOfType(t string) (Event, bool) {
	evs := c.eventsOfType(t)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

func newTestHub(t *testing.T, opts Options) (*Hub, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return New(st, opts), st
}

func roomFixture(id string) domain.ChatRoom {
	return domain.ChatRoom{
		ID:           id,
		Name:         "fixture",
		OriginatorID: "u1",
		CreatedAt:    time.Now(),
	}
}

// eventually polls until cond holds; asynchronous durable writes make some
// assertions timing-dependent.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}
