package ws

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/service"
)

// MessageFrame is what the room receives for every persisted message.
type MessageFrame struct {
	Type      string    `json:"type"`
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chat_id"`
	SenderID  uint      `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryFrame is sent once per connection right after it joins the room.
type HistoryFrame struct {
	Type     string           `json:"type"`
	Messages []models.Message `json:"messages"`
}

// ErrorFrame goes to the offending sender only.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type inboundFrame struct {
	Content string `json:"content"`
}

type ChatHandler struct {
	Registry  *Registry
	Svc       *service.ChatService
	JWTSecret []byte
	Upgrader  websocket.Upgrader
}

func NewChatHandler(registry *Registry, svc *service.ChatService, jwtSecret []byte) *ChatHandler {
	return &ChatHandler{
		Registry:  registry,
		Svc:       svc,
		JWTSecret: jwtSecret,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the frontend origin; access
			// control happens via the token, not the Origin header.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve authenticates the socket, joins it to the room and runs its receive
// loop. Authorization failures are rejected before the upgrade so the client
// gets a proper HTTP status.
func (h *ChatHandler) Serve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ws.chat")

	chatID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat id")
	}
	chatID := uint(chatID64)

	userID, _, err := service.ParseAccessToken(c.QueryParam("token"), h.JWTSecret)
	if err != nil {
		l.Warn("ws_auth_failed", "chat_id", chatID, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	if _, err := h.Svc.AuthorizeParticipant(ctx, chatID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not a participant of this chat")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	conn, err := h.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		l.Warn("ws_upgrade_failed", "chat_id", chatID, "error", err)
		return nil
	}

	l = l.With("chat_id", chatID, "user_id", userID)
	l.Info("ws_connected")

	history, err := h.Svc.History(ctx, chatID)
	if err != nil {
		l.Error("ws_history_failed", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "history unavailable"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return nil
	}
	// Not registered yet, so no broadcast can reach this socket; the direct
	// write is safe here.
	if err := conn.WriteJSON(HistoryFrame{Type: "history", Messages: history}); err != nil {
		_ = conn.Close()
		return nil
	}

	client := h.Registry.Connect(chatID, conn)
	defer func() {
		// Cleanup must run on every exit path, including network drops
		// and processing errors.
		h.Registry.Disconnect(chatID, client)
		_ = conn.Close()
		l.Info("ws_disconnected")
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.Warn("ws_read_error", "error", err)
			}
			return nil
		}

		msg, err := h.Svc.PostMessage(ctx, chatID, userID, frame.Content)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				// Validation problems go back to the sender only. The reply
				// goes through the registered client so it cannot interleave
				// with a concurrent room broadcast.
				_ = client.WriteJSON(ErrorFrame{Type: "error", Error: "message content required"})
				continue
			}
			l.Error("ws_message_failed", "error", err)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "internal error"),
				time.Now().Add(time.Second))
			return nil
		}

		h.Registry.Broadcast(chatID, MessageFrame{
			Type:      "message",
			ID:        msg.ID,
			ChatID:    msg.ChatID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		})
	}
}
