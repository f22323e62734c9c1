package bot

import (
	"errors"
	"fmt"

	"github.com/m3rciful/wishbot/core/telegram/format"
	"github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/service"

	tele "gopkg.in/telebot.v4"
)

func (h *Handlers) start(c tele.Context) error {
	if msg := c.Message(); msg != nil {
		if code, ok := service.ParseStartPayload(msg.Payload); ok {
			return h.viewShared(c, code)
		}
	}
	name := "there"
	if p, ok := helpers.SenderProfile(c); ok && p.FirstName != "" {
		name = p.FirstName
	}
	return helpers.SendHTML(c, fmt.Sprintf(textWelcome, format.Escape(name)), mainMenu())
}

func (h *Handlers) help(c tele.Context) error {
	return helpers.SendHTML(c, textHelp, mainMenu())
}

func (h *Handlers) myWishlist(c tele.Context) error {
	wishes, err := h.wishlist.GetUserWishes(ctxOf(c), senderID(c))
	if err != nil {
		return h.fail(c, err)
	}
	if len(wishes) == 0 {
		return helpers.SendHTML(c, textListEmpty, mainMenu())
	}
	if err := helpers.SendHTML(c, fmt.Sprintf(textListHeader, len(wishes)), mainMenu()); err != nil {
		return err
	}
	for _, w := range wishes {
		if err := h.sendCard(c, w, wishActions(w.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) add(c tele.Context) error {
	out := h.engine.StartAdd(ctxOf(c), helpers.ChatID(c), senderID(c))
	return h.renderOutcome(c, out)
}

func (h *Handlers) cancel(c tele.Context) error {
	return h.renderOutcome(c, h.engine.Cancel(ctxOf(c), helpers.ChatID(c)))
}

func (h *Handlers) share(c tele.Context) error {
	ctx := ctxOf(c)
	u, err := h.users.Get(ctx, senderID(c))
	if err != nil {
		return h.fail(c, err)
	}
	wishes, err := h.wishlist.GetUserWishes(ctx, u.ID)
	if err != nil {
		return h.fail(c, err)
	}
	if len(wishes) == 0 {
		return helpers.SendHTML(c, textShareEmpty, mainMenu())
	}
	link := shareLink(h.botUsername(), u.ShareCode)
	return helpers.SendHTML(c, renderShare(link, len(wishes), u.IsPublic), mainMenu())
}

func (h *Handlers) viewShared(c tele.Context, code string) error {
	ctx := ctxOf(c)
	owner, err := h.users.ResolveShareCode(ctx, code)
	if errors.Is(err, service.ErrUserNotFound) {
		return helpers.SendHTML(c, textSharedNotFound, mainMenu())
	}
	if err != nil {
		return h.fail(c, err)
	}
	if !owner.IsPublic {
		return helpers.SendHTML(c, textSharedPrivate, mainMenu())
	}
	wishes, err := h.wishlist.GetUserWishes(ctx, owner.ID)
	if err != nil {
		return h.fail(c, err)
	}
	ownerName := format.Escape(owner.DisplayName())
	if len(wishes) == 0 {
		return helpers.SendHTML(c, fmt.Sprintf(textSharedEmpty, ownerName), mainMenu())
	}

	viewer := "there"
	if p, ok := helpers.SenderProfile(c); ok && p.FirstName != "" {
		viewer = p.FirstName
	}
	if err := helpers.SendHTML(c, fmt.Sprintf(textSharedHeader, format.Escape(viewer), ownerName, len(wishes))); err != nil {
		return err
	}
	for _, w := range wishes {
		if err := h.sendCard(c, w, nil); err != nil {
			return err
		}
	}
	return helpers.SendHTML(c, textSharedTip, mainMenu())
}

func (h *Handlers) settings(c tele.Context) error {
	u, err := h.users.Get(ctxOf(c), senderID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return helpers.SendHTML(c, renderSettings(u.IsPublic), settingsMenu(u.IsPublic))
}

func (h *Handlers) stats(c tele.Context) error {
	st, err := h.users.Stats(ctxOf(c))
	if err != nil {
		return h.fail(c, err)
	}
	return helpers.SendHTML(c, renderStats(st))
}

func (h *Handlers) adminOnly(c tele.Context) error {
	return helpers.SendHTML(c, textAdminOnly)
}

// sendCard sends w as a photo with caption when it has an image, as text otherwise.
func (h *Handlers) sendCard(c tele.Context, w models.Wish, markup *tele.ReplyMarkup) error {
	return sendWish(c, w, renderCard(w, h.loc), markup)
}

func sendWish(c tele.Context, w models.Wish, text string, markup *tele.ReplyMarkup) error {
	if w.ImageFileID != nil && *w.ImageFileID != "" {
		return helpers.SendPhoto(c, *w.ImageFileID, text, markup)
	}
	return helpers.SendHTML(c, text, markup)
}

// fail reports an unexpected error to the user and hands it to the router summary.
func (h *Handlers) fail(c tele.Context, err error) error {
	if c.Callback() != nil {
		_ = helpers.Alert(c, textFailed)
		return err
	}
	_ = helpers.SendHTML(c, textFailed, mainMenu())
	return err
}
