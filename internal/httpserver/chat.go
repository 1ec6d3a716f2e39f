package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dimalbek/farmer-market/internal/logging"
	"github.com/dimalbek/farmer-market/internal/middleware"
	"github.com/dimalbek/farmer-market/internal/service"
)

type ChatHTTP struct {
	Svc *service.ChatService
}

// StartChat opens a conversation between the calling buyer and a farmer,
// returning the existing chat when one is already there.
func (h *ChatHTTP) StartChat(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "chat.start")

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	farmerID, err := parseUintParam(c, "farmer_id")
	if err != nil {
		return err
	}

	chat, err := h.Svc.StartChat(ctx, userID, farmerID)
	if err != nil {
		l.Warn("start_chat_error", "farmer_id", farmerID, "error", err)
		return httpError(err)
	}

	l.Info("chat_started", "chat_id", chat.ID, "buyer_id", chat.BuyerID, "farmer_id", chat.FarmerID)
	return c.JSON(http.StatusCreated, chat)
}

func (h *ChatHTTP) ListChats(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	chats, err := h.Svc.ListChats(ctx, userID, middleware.Role(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, chats)
}

// GetChat returns the chat plus its recent message history, newest last.
func (h *ChatHTTP) GetChat(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	chatID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	chat, err := h.Svc.AuthorizeParticipant(ctx, chatID, userID)
	if err != nil {
		return httpError(err)
	}

	messages, err := h.Svc.History(ctx, chatID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"chat":     chat,
		"messages": messages,
	})
}
