// Package bot renders the wishlist over Telegram: commands, inline callbacks,
// menu labels and the adapter that feeds chat messages into the conversation
// engine.
package bot

import (
	"context"
	"sync/atomic"
	"time"

	tg "github.com/m3rciful/wishbot/core/telegram"
	"github.com/m3rciful/wishbot/core/telegram/commands"
	"github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/core/telegram/router"
	"github.com/m3rciful/wishbot/internal/conversation"
	"github.com/m3rciful/wishbot/internal/service"

	tele "gopkg.in/telebot.v4"
)

// Options wires the services used by the handlers.
type Options struct {
	Wishlist *service.Wishlist
	Users    *service.Users
	Engine   *conversation.Engine
	// Location renders card timestamps; UTC when nil.
	Location *time.Location
	AdminID  int64
}

// Handlers implements every Telegram entry point of the bot.
type Handlers struct {
	wishlist *service.Wishlist
	users    *service.Users
	engine   *conversation.Engine
	loc      *time.Location
	adminID  int64

	username atomic.Value
}

// New builds the handler set.
func New(opts Options) *Handlers {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		wishlist: opts.Wishlist,
		users:    opts.Users,
		engine:   opts.Engine,
		loc:      loc,
		adminID:  opts.AdminID,
	}
}

// SetBotUsername records the bot's @username used in share links.
func (h *Handlers) SetBotUsername(name string) {
	h.username.Store(name)
}

func (h *Handlers) botUsername() string {
	name, _ := h.username.Load().(string)
	return name
}

// Register adds commands and callbacks to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{Handler: h.start, Description: "Start the bot", Order: 0})
	reg.RegisterCommand("/help", commands.Command{Handler: h.help, Description: "Show help", Order: 1})
	reg.RegisterCommand("/mywishlist", commands.Command{
		Handler: h.myWishlist, Description: "View your wishlist", Order: 2, Aliases: []string{BtnMyWishlist},
	})
	reg.RegisterCommand("/add", commands.Command{
		Handler: h.add, Description: "Add a new wish", Order: 3, Aliases: []string{BtnAddWish},
	})
	reg.RegisterCommand("/share", commands.Command{
		Handler: h.share, Description: "Get a link to your wishlist", Order: 4, Aliases: []string{BtnShare},
	})
	reg.RegisterCommand("/settings", commands.Command{
		Handler: h.settings, Description: "Wishlist visibility", Order: 5, Aliases: []string{BtnSettings},
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler: h.cancel, Description: "Cancel the current action", Order: 6, Aliases: []string{BtnCancel},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler: h.stats, Description: "Usage statistics", AdminOnly: true, Hidden: true,
	})

	cbs := map[string]tele.HandlerFunc{
		cbWishEdit:          h.onWishEdit,
		cbWishEditField:     h.onWishEditField,
		cbWishEditCancel:    h.onWishEditCancel,
		cbWishDelete:        h.onWishDelete,
		cbWishDeleteConfirm: h.onWishDeleteConfirm,
		cbWishDeleteCancel:  h.onWishDeleteCancel,
		cbSettingsVisible:   h.onSettingsVisibility,
	}
	for key, fn := range cbs {
		if err := reg.RegisterCallback(key, fn); err != nil {
			return err
		}
	}
	reg.SetCallbackNotFound(h.UnknownCallback())
	return nil
}

// Routes builds the bot routes for commands, callbacks and free-form messages.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       h.adminID,
		OnAdminReject: h.adminOnly,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{NotFound: h.UnknownCallback()}))
	routes = append(routes, router.TextRoutes(h, reg, router.TextOptions{
		UnknownText:     h.UnknownText(),
		UnknownPhoto:    h.UnknownPhoto(),
		UnknownDocument: h.UnknownDocument(),
	})...)
	return routes
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func ctxOf(c tele.Context) context.Context {
	return helpers.BuildContext(c)
}
