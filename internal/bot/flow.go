package bot

import (
	"fmt"

	"github.com/m3rciful/wishbot/core/telegram/format"
	"github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

// InProgress reports whether the chat of c is inside an add or edit flow.
func (h *Handlers) InProgress(c tele.Context) bool {
	return h.engine.InProgress(ctxOf(c), helpers.ChatID(c))
}

// HandleMessage feeds a text or photo message into the active flow.
func (h *Handlers) HandleMessage(c tele.Context) error {
	return h.renderOutcome(c, h.engine.Handle(ctxOf(c), eventOf(c)))
}

func eventOf(c tele.Context) conversation.Event {
	ev := conversation.Event{
		ChatID: helpers.ChatID(c),
		UserID: senderID(c),
		Text:   c.Text(),
	}
	if msg := c.Message(); msg != nil && msg.Photo != nil {
		ev.PhotoFileID = msg.Photo.FileID
	}
	return ev
}

func (h *Handlers) renderOutcome(c tele.Context, out conversation.Outcome) error {
	switch out.Step {
	case conversation.StepIdle:
		return helpers.SendHTML(c, textNothingPending, mainMenu())

	case conversation.StepPrompt:
		text, kb := renderPrompt(out.State, out.Wish)
		return helpers.SendHTML(c, text, kb)

	case conversation.StepInvalid:
		text, kb := renderPrompt(out.State, out.Wish)
		if out.State.Editing() {
			text = "Please send another value."
		}
		return helpers.SendHTML(c, renderError(out.Err, h.wishlist.MaxWishes())+"\n\n"+text, kb)

	case conversation.StepPhotoRequired:
		return helpers.SendHTML(c, textPhotoRequired, skipMenu())

	case conversation.StepEditMenu:
		return helpers.EditHTML(c, fmt.Sprintf(textEditMenu, format.Escape(out.Wish.Title)), editMenu(out.Wish.ID))

	case conversation.StepAdded:
		return sendWish(c, *out.Wish, renderSummary(textWishAdded, *out.Wish), mainMenu())

	case conversation.StepUpdated:
		return sendWish(c, *out.Wish, renderSummary(textWishUpdated, *out.Wish), mainMenu())

	case conversation.StepCanceled:
		text := textAddCanceled
		if out.From.Editing() {
			text = textEditCanceled
		}
		return helpers.SendHTML(c, text, mainMenu())

	case conversation.StepQuota:
		return helpers.SendHTML(c, renderError(out.Err, h.wishlist.MaxWishes()), mainMenu())

	case conversation.StepNotFound:
		if c.Callback() != nil {
			return helpers.Alert(c, textWishNotFound)
		}
		return helpers.SendHTML(c, textWishNotFound, mainMenu())
	}
	return h.fail(c, out.Err)
}
