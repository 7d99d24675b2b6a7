package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/chathive/chat-service/internal/hub"
	"github.com/chathive/chat-service/internal/metrics"
)

// dispatch decodes one inbound frame and routes it to the hub. Malformed
// events are dropped with a logged warning; nothing here can take down the
// connection or the room.
func (s *Server) dispatch(c *wsConn, data []byte) {
	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		drop(c, "bad_json", err)
		return
	}

	switch env.Type {
	case hub.EvJoinRoom:
		var p hub.JoinRoomPayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.Join(c, p)
		}
	case hub.EvLeaveRoom:
		var p hub.LeaveRoomPayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.Leave(c.ID(), p)
		}
	case hub.EvSendMessage:
		var p hub.SendMessagePayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.SendMessage(c, p)
		}
	case hub.EvSystemMessage:
		var p hub.SystemMessagePayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.SendSystemMessage(p)
		}
	case hub.EvUserTyping:
		var p hub.PresencePayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.Typing(c.ID(), p)
		}
	case hub.EvUserAway:
		var p hub.PresencePayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.Away(c.ID(), p)
		}
	case hub.EvUserReturned:
		var p hub.PresencePayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.Returned(c.ID(), p)
		}
	case hub.EvSignalOffer, hub.EvSignalAnswer, hub.EvSignalCand:
		var p hub.SignalPayload
		if decode(c, env.Type, env.Payload, &p) {
			s.hub.Relay(env.Type, c.ID(), p)
		}
	default:
		slog.Warn("unknown event type", "conn", c.ID(), "type", env.Type)
		metrics.DroppedEvents.WithLabelValues("unknown_type").Inc()
	}
}

type validator interface {
	Validate() error
}

func decode[T validator](c *wsConn, evType string, raw json.RawMessage, dst *T) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		drop(c, evType, err)
		return false
	}
	if err := (*dst).Validate(); err != nil {
		drop(c, evType, err)
		return false
	}
	return true
}

func drop(c *wsConn, evType string, err error) {
	slog.Warn("dropping malformed event", "conn", c.ID(), "type", evType, "err", err)
	metrics.DroppedEvents.WithLabelValues("malformed").Inc()
}
