package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chathive/chat-service/internal/domain"
	"github.com/chathive/chat-service/internal/hub"
	"github.com/chathive/chat-service/internal/store"
)

type Handler struct {
	hub   *hub.Hub
	store store.Store
}

func NewHandler(h *hub.Hub, st store.Store) *Handler {
	return &Handler{hub: h, store: st}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/rooms/temporary
func (h *Handler) CreateTemporaryRoom(w http.ResponseWriter, r *http.Request) {
	id := h.hub.CreateEphemeralRoom()
	writeJSON(w, http.StatusCreated, TemporaryRoomResponse{ChatroomID: id})
}

// GET /api/rooms/{id}/state
func (h *Handler) GetRoomState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	room, ok := h.hub.Registry().Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}
	writeJSON(w, http.StatusOK, RoomStateResponse{RoomID: id, MemberCount: room.MemberCount()})
}

// GET /api/rooms/{id}/messages?limit=&cursor=
// Persisted history for durable rooms; ephemeral rooms have none.
func (h *Handler) GetRoomMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	if _, err := h.store.FindRoomByID(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "chatroom not found"})
			return
		}
		slog.Error("handler.GetRoomMessages.FindRoomByID:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	msgs, next, err := h.store.ListMessages(r.Context(), id, cursor, limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.GetRoomMessages:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := MessagesResponse{Items: make([]MessageItem, 0, len(msgs)), NextCursor: next}
	for _, m := range msgs {
		resp.Items = append(resp.Items, toMessageItem(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/notifications
// The surrounding application calls this to push a notification to a user's
// live sessions (e.g. "added to chatroom"); the durable record is written
// regardless of who is online.
func (h *Handler) PostNotification(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("handler.PostNotification.Decode:", slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if req.UserID == "" || req.Body == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user_id and body are required"})
		return
	}

	h.hub.Notify(domain.Notification{
		UserID: req.UserID,
		Kind:   req.Kind,
		Body:   req.Body,
		RoomID: req.RoomID,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
