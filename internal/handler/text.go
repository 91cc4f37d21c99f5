package handler

import (
	"strings"

	"newsfeed/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on the session phase
func (h *Handler) handleText(c tele.Context) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctrl := h.session(c)

	switch ctrl.Phase() {
	case domain.PhaseTopicSelection:
		return c.Send(textAskTopics, topicsMarkup(ctrl.Snapshot().Topics))
	case domain.PhaseFeed:
		return h.sendSlide(c, ctrl)
	}

	if text == "" {
		return c.Send(textAskName)
	}

	if err := c.Notify(tele.Typing); err != nil {
		h.logger.Debug("Failed to send chat action", zap.Error(err))
	}

	err := ctrl.SubmitIdentity(h.ctx, text)
	if err != nil {
		h.logger.Warn("Identity submission rejected",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return c.Send(noticeFor(err, textConnectError))
	}

	if ctrl.Phase() == domain.PhaseTopicSelection {
		return c.Send(textAskTopics, topicsMarkup(nil))
	}

	h.ResetState(chatID)
	h.startSlide(ctrl, 0)
	return h.sendSlide(c, ctrl)
}
