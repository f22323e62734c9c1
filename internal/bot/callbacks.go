package bot

import (
	"fmt"

	"github.com/m3rciful/wishbot/core/telegram/callbacks"
	"github.com/m3rciful/wishbot/core/telegram/format"
	"github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/internal/conversation"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/service"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) onWishEdit(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.Alert(c, textUnsupported)
	}
	return h.renderOutcome(c, h.engine.StartEdit(ctxOf(c), helpers.ChatID(c), senderID(c), id))
}

func (h *Handlers) onWishEditField(c tele.Context) error {
	name, id, err := callbacks.PayloadNameID(c)
	if err != nil {
		return helpers.Alert(c, textUnsupported)
	}
	field, ok := models.ParseField(name)
	if !ok {
		return helpers.Alert(c, textUnsupported)
	}
	return h.renderOutcome(c, h.engine.ChooseField(ctxOf(c), helpers.ChatID(c), senderID(c), id, field))
}

func (h *Handlers) onWishEditCancel(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.Alert(c, textUnsupported)
	}
	if out := h.engine.Cancel(ctxOf(c), helpers.ChatID(c)); out.Step == conversation.StepFailed {
		return h.fail(c, out.Err)
	}
	if err := h.restoreCard(c, id); err != nil {
		return err
	}
	return helpers.SendHTML(c, textEditCanceled, mainMenu())
}

func (h *Handlers) onWishDelete(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.Alert(c, textUnsupported)
	}
	w, err := h.wishlist.GetWish(ctxOf(c), id, senderID(c))
	if err != nil {
		return h.fail(c, err)
	}
	if w == nil {
		return helpers.EditHTML(c, textWishNotFound)
	}
	return helpers.EditHTML(c, fmt.Sprintf(textConfirmDelete, format.Escape(w.Title)), confirmDelete(id))
}

func (h *Handlers) onWishDeleteConfirm(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.Alert(c, textUnsupported)
	}
	_, err = h.wishlist.DeleteWish(ctxOf(c), id, senderID(c))
	if err != nil {
		if service.CodeOf(err) == service.CodeInternal {
			return h.fail(c, err)
		}
		return helpers.EditHTML(c, renderError(err, h.wishlist.MaxWishes()))
	}
	return helpers.EditHTML(c, textDeleted)
}

func (h *Handlers) onWishDeleteCancel(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.Alert(c, textUnsupported)
	}
	_ = c.Respond(&tele.CallbackResponse{Text: textDeleteCanceled})
	return h.restoreCard(c, id)
}

// restoreCard puts the wish card and its Edit/Delete buttons back on the callback message.
func (h *Handlers) restoreCard(c tele.Context, id int64) error {
	w, err := h.wishlist.GetWish(ctxOf(c), id, senderID(c))
	if err != nil {
		return h.fail(c, err)
	}
	if w == nil {
		return helpers.EditHTML(c, textWishNotFound)
	}
	return helpers.EditHTML(c, renderCard(*w, h.loc), wishActions(id))
}

func (h *Handlers) onSettingsVisibility(c tele.Context) error {
	var public bool
	switch callbacks.Payload(c) {
	case "public":
		public = true
	case "private":
	default:
		return helpers.Alert(c, textUnsupported)
	}
	if err := h.users.SetPublic(ctxOf(c), senderID(c), public); err != nil {
		return h.fail(c, err)
	}
	return helpers.EditHTML(c, renderSettings(public), settingsMenu(public))
}
