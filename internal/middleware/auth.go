package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// OwnerOnly creates middleware that drops every update not coming from
// the owner chat. The bot is strictly single-user.
func OwnerOnly(ownerID int64, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || sender.ID != ownerID {
				var id int64
				if sender != nil {
					id = sender.ID
				}
				logger.Warn("Ignoring update from foreign chat", zap.Int64("sender_id", id))
				return nil
			}

			return next(c)
		}
	}
}
