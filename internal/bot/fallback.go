package bot

import (
	"github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

var _ ui.FallbackProvider = (*Handlers)(nil)

// UnknownText answers free text outside of any flow.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.SendHTML(c, textUnknown, mainMenu())
	}
}

// UnknownPhoto answers photos sent outside of any flow.
func (h *Handlers) UnknownPhoto() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.SendHTML(c, textUnknownPhoto, mainMenu())
	}
}

func (h *Handlers) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.SendHTML(c, textUnknownDoc, mainMenu())
	}
}

// UnknownCallback answers stale or foreign inline buttons.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: textUnsupported})
	}
}

// RateLimited is sent when the per-user limiter drops an update.
func (h *Handlers) RateLimited() tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: textRateLimited})
		}
		return helpers.SendText(c, textRateLimited)
	}
}
