package middleware

import (
	"newsfeed/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// SessionKey is the context key the chat's session is stored under
const SessionKey = "session"

const textBusy = "Đang xử lý..."

// Session binds the chat's session to the update context
func Session(registry *session.Registry, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				logger.Debug("Update without chat, skipping session binding")
				return next(c)
			}

			c.Set(SessionKey, registry.Get(chat.ID))
			return next(c)
		}
	}
}

// BusyGuard drops updates while the chat's onboarding submission is in flight.
// /start always passes.
func BusyGuard(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctrl := SessionFrom(c)
			if ctrl == nil || !ctrl.Busy() || c.Text() == "/start" {
				return next(c)
			}

			logger.Debug("Session busy, dropping update", zap.Int64("chat_id", c.Chat().ID))
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: textBusy})
			}
			return c.Send(textBusy)
		}
	}
}

// SessionFrom returns the session bound by Session, or nil
func SessionFrom(c tele.Context) *session.Controller {
	ctrl, _ := c.Get(SessionKey).(*session.Controller)
	return ctrl
}
