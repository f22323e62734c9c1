package bot

import (
	"log/slog"

	"github.com/m3rciful/wishbot/core/logger"
	"github.com/m3rciful/wishbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// EnsureUser registers the sender of every update before it is handled.
// Registration failures are logged and the update still proceeds.
func (h *Handlers) EnsureUser(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		p, ok := helpers.SenderProfile(c)
		if ok && !c.Sender().IsBot {
			ctx := helpers.BuildContext(c)
			if _, err := h.users.GetOrCreate(ctx, p.ID, p.Username, p.FirstName); err != nil {
				logger.LogEvent(ctx, logger.SVCUsers, slog.LevelWarn, "user.ensure",
					slog.String("status", "fail"),
					slog.Int64("user_id", p.ID),
					slog.String("err", err.Error()),
				)
			}
		}
		return next(c)
	}
}
