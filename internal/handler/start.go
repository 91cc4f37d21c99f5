package handler

import (
	"newsfeed/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command by opening a fresh session
func (h *Handler) handleStart(c tele.Context) error {
	chatID := c.Chat().ID

	h.logger.Info("User started bot",
		zap.Int64("chat_id", chatID),
		zap.String("username", c.Sender().Username),
	)

	ctrl := h.sessions.Reset(chatID)
	c.Set(middleware.SessionKey, ctrl)
	h.ResetState(chatID)

	return c.Send(textAskName)
}
