package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chathive/chat-service/internal/hub"
)

type Server struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub

	pingEvery  time.Duration
	readLimit  int64
	sendBuffer int
}

func NewServer(h *hub.Hub) *Server {
	return &Server{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:  15 * time.Second,
		readLimit:  1 << 20,
		sendBuffer: 32,
	}
}

// WS endpoint: GET /ws?user_id=...&display_name=...
// user_id identifies an authenticated session; authentication itself happens
// before admission and is not re-checked here.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := strings.TrimSpace(q.Get("user_id"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, uuid.NewString(), userID, s.sendBuffer)
	s.hub.Register(c)

	go s.writePump(c)
	s.readPump(c)

	s.hub.Unregister(c.ID())
	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.ID(), "err", err)
	}
}

func (s *Server) readPump(c *wsConn) {
	c.conn.SetReadLimit(s.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("ws read error", "conn", c.ID(), "err", err)
			}
			return
		}
		s.dispatch(c, data)
	}
}

func (s *Server) writePump(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.writeDeadline(); err != nil {
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				slog.Debug("ws write error", "conn", c.ID(), "err", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		}
	}
}
