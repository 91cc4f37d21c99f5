package handler

import (
	"errors"
	"strings"
	"unicode"

	"newsfeed/internal/domain"
	"newsfeed/internal/feed"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// splitCallbackData splits cleaned "unique|payload" data
func splitCallbackData(data string) (unique, payload string) {
	unique, payload, _ = strings.Cut(data, "|")
	return unique, payload
}

// noticeFor maps a session error to the text shown to the user.
// Connectivity and unexpected errors get fallback.
func noticeFor(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrBusy):
		return textBusy
	case errors.Is(err, domain.ErrEmptySelection):
		return textEmptySelection
	case errors.Is(err, domain.ErrEmptyDisplayName):
		return textAskName
	default:
		return fallback
	}
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, chatID int64) error {
	if err == nil {
		return nil
	}

	// Message was already edited to the same content by another callback
	if errors.Is(err, tele.ErrSameMessageContent) || strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("chat_id", chatID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("chat_id", chatID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callbacks whose unique has no registered handler
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	unique, payload := splitCallbackData(data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.Int64("chat_id", c.Chat().ID),
	)

	callback.Unique = unique
	callback.Data = payload

	switch unique {
	case btnTopic.Unique:
		return h.handleTopic(c)
	case btnSubmitTopics.Unique:
		return h.handleSubmitTopics(c)
	case btnNav.Unique:
		return h.handleNav(c)
	case btnLike.Unique:
		return h.handleLike(c)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
	)
	return c.Respond()
}

// handleTopic toggles one catalog topic
func (h *Handler) handleTopic(c tele.Context) error {
	chatID := c.Chat().ID
	ctrl := h.session(c)

	label, ok := topicAt(cleanCallbackData(c.Callback().Data))
	if !ok {
		return c.Respond()
	}

	if _, err := ctrl.ToggleTopic(label); err != nil {
		h.logger.Debug("Topic toggle rejected", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Respond(&tele.CallbackResponse{Text: noticeFor(err, "")})
	}

	markup := topicsMarkup(ctrl.Snapshot().Topics)
	if err := c.Edit(textAskTopics, markup); err != nil {
		if handleErr := h.handleEditError(err, c, chatID); handleErr == nil {
			return nil
		}
		return c.Send(textAskTopics, markup)
	}
	return c.Respond()
}

// handleSubmitTopics stores the selection and opens the feed
func (h *Handler) handleSubmitTopics(c tele.Context) error {
	chatID := c.Chat().ID
	ctrl := h.session(c)

	if len(ctrl.Snapshot().Topics) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: textEmptySelection, ShowAlert: true})
	}

	if err := c.Edit(textPreparing); err != nil {
		h.logger.Debug("Failed to show preparing notice", zap.Error(err))
	}

	if err := ctrl.SubmitTopics(h.ctx); err != nil {
		h.logger.Warn("Topic submission rejected", zap.Error(err), zap.Int64("chat_id", chatID))
		_ = c.Respond(&tele.CallbackResponse{Text: noticeFor(err, textPreferError), ShowAlert: true})

		markup := topicsMarkup(ctrl.Snapshot().Topics)
		if editErr := c.Edit(textAskTopics, markup); editErr != nil {
			return c.Send(textAskTopics, markup)
		}
		return nil
	}

	h.ResetState(chatID)
	h.startSlide(ctrl, 0)
	return h.editSlide(c, ctrl)
}

// handleNav moves the carousel one slide and reports the dwell of the slide left
func (h *Handler) handleNav(c tele.Context) error {
	chatID := c.Chat().ID
	ctrl := h.session(c)

	state := ctrl.Feed()
	if state == nil {
		return c.Respond()
	}

	current := h.GetState(chatID).Index
	next, ok, reachedEnd := navTarget(current, cleanCallbackData(c.Callback().Data), state.Len(), state.HasMore())
	if !ok {
		return c.Respond()
	}

	if err := ctrl.SlideChanged(articleID(state, current), articleID(state, next)); err != nil {
		h.logger.Debug("Slide change rejected", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Respond()
	}
	h.SetState(chatID, &CarouselState{Index: next})

	if reachedEnd {
		// Show the last loaded article while the next page loads
		text, markup := h.slide(chatID, ctrl)
		if err := c.Edit(text+"\n\n"+textLoadingMore, markup, tele.ModeHTML); err != nil {
			h.logger.Debug("Failed to show loading slide", zap.Error(err))
		}
		if err := ctrl.LoadMore(h.ctx); err != nil {
			h.logger.Warn("Failed to load more articles", zap.Error(err), zap.Int64("chat_id", chatID))
		}
	}
	return h.editSlide(c, ctrl)
}

// handleLike toggles the liked state of the article in the payload
func (h *Handler) handleLike(c tele.Context) error {
	chatID := c.Chat().ID
	ctrl := h.session(c)

	id := domain.ID(cleanCallbackData(c.Callback().Data))
	liked, err := ctrl.ToggleLike(id)
	if err != nil {
		h.logger.Debug("Like toggle rejected", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Respond()
	}

	h.logger.Info("Article like toggled",
		zap.Int64("chat_id", chatID),
		zap.String("article_id", id.String()),
		zap.Bool("liked", liked),
	)
	return h.editSlide(c, ctrl)
}

// navTarget resolves a navigation button against the loaded feed.
// ok is false when the move leaves the loaded range. reachedEnd reports
// that next is the last loaded article while more pages remain.
func navTarget(current int, dir string, length int, hasMore bool) (next int, ok, reachedEnd bool) {
	switch dir {
	case navPrev:
		next = current - 1
	case navNext:
		next = current + 1
	default:
		return current, false, false
	}
	if next < 0 || next >= length {
		return current, false, false
	}
	return next, true, next == length-1 && hasMore
}

// articleID returns the id at index or "" for the loading slide
func articleID(state *feed.State, index int) domain.ID {
	a, ok := state.At(index)
	if !ok {
		return ""
	}
	return a.ID
}
