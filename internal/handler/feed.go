package handler

import (
	"newsfeed/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// sendSlide sends the chat's current slide as a new message
func (h *Handler) sendSlide(c tele.Context, ctrl *session.Controller) error {
	text, markup := h.slide(c.Chat().ID, ctrl)
	return c.Send(text, markup, tele.ModeHTML)
}

// editSlide replaces the callback's message with the chat's current slide
func (h *Handler) editSlide(c tele.Context, ctrl *session.Controller) error {
	chatID := c.Chat().ID
	text, markup := h.slide(chatID, ctrl)

	if err := c.Edit(text, markup, tele.ModeHTML); err != nil {
		if handleErr := h.handleEditError(err, c, chatID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup, tele.ModeHTML)
	}
	return c.Respond()
}

func (h *Handler) slide(chatID int64, ctrl *session.Controller) (string, *tele.ReplyMarkup) {
	snap := ctrl.Snapshot()
	index := h.GetState(chatID).Index
	if index >= len(snap.Feed.Items) && !snap.Feed.IsLoading && len(snap.Feed.Items) > 0 {
		index = len(snap.Feed.Items) - 1
	}
	return renderSlide(snap.DisplayName, snap.Feed, index), slideMarkup(snap.Feed, index)
}

// startSlide starts the dwell timer of the slide at index, if it exists
func (h *Handler) startSlide(ctrl *session.Controller, index int) {
	state := ctrl.Feed()
	if state == nil {
		return
	}
	a, ok := state.At(index)
	if !ok {
		return
	}
	if err := ctrl.StartView(a.ID); err != nil {
		h.logger.Debug("Failed to start view", zap.Error(err))
	}
}
