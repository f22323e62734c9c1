package router

import (
	"time"

	tg "github.com/m3rciful/wishbot/core/telegram"
	tghelpers "github.com/m3rciful/wishbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// FSM is the conversation engine seen from the router.
type FSM interface {
	InProgress(c tele.Context) bool
	HandleMessage(c tele.Context) error
}

// TextOptions controls fallback behaviour for text, photo and document updates.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownPhoto    tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes routes free-form messages. Reply-keyboard labels registered as
// command aliases win over an active conversation; everything else goes to
// the conversation first and to the fallbacks otherwise.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		start := timeNow()
		if reg != nil {
			if key, cmd, ok := reg.LookupAlias(c.Text()); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}
		if fsm != nil && fsm.InProgress(c) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsm.HandleMessage(c)
			})
		}
		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}
		return fallback(c, "unknown_text", start, opts.UnknownText)
	}

	photo := func(c tele.Context) error {
		start := timeNow()
		if fsm != nil && fsm.InProgress(c) {
			return handleWithSummary(c, "fsm_photo", start, "", "", func() error {
				return fsm.HandleMessage(c)
			})
		}
		return fallback(c, "unexpected_photo", start, opts.UnknownPhoto)
	}

	document := func(c tele.Context) error {
		return fallback(c, "unexpected_document", timeNow(), opts.UnknownDocument)
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(text)},
		{Endpoint: tele.OnPhoto, Handler: wrap(photo)},
		{Endpoint: tele.OnDocument, Handler: wrap(document)},
	}
}

func fallback(c tele.Context, name string, start time.Time, h tele.HandlerFunc) error {
	if h == nil {
		tghelpers.WithHandler(c, name)
		logHandlerSummary(c, name, start, "skip", "ok", nil)
		return nil
	}
	return handleWithSummary(c, name, start, "", "", func() error {
		return h(c)
	})
}
