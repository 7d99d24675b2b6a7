package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chathive/chat-service/internal/hub"
)

var ErrBackpressure = errors.New("backpressure")

// wsConn adapts one gorilla connection to hub.Conn. Outbound events go through
// a buffered channel drained by the write pump; Send never blocks the
// broadcast path.
type wsConn struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan hub.Event

	mu     sync.RWMutex
	closed bool
}

func newWsConn(c *websocket.Conn, id, userID string, buffer int) *wsConn {
	return &wsConn{
		id:     id,
		userID: userID,
		conn:   c,
		send:   make(chan hub.Event, buffer),
	}
}

func (c *wsConn) ID() string     { return c.id }
func (c *wsConn) UserID() string { return c.userID }

func (c *wsConn) Send(ev hub.Event) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- ev:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.send)
	return c.conn.Close()
}

func (c *wsConn) writeDeadline() error {
	return c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
}
