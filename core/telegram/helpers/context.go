package helpers

import (
	"context"

	"github.com/m3rciful/wishbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const contextKey = "request_ctx"

// StoreContext attaches ctx to c for the helpers and handlers further down the chain.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom returns the context previously stored on c.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(contextKey).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext returns the request context of c: rid, update/user/chat
// metadata and the tg logger. The chat id in it is the key sender.Dispatcher
// shards on, so it is resolved with ChatID: updates without a chat, such as
// callbacks on inline messages, are keyed by the sender and still keep one
// worker per conversation. A stored context missing the chat id is enriched.
func BuildContext(c tele.Context) context.Context {
	upd := c.Update()
	chatID := ChatID(c)
	var userID int64
	if u := c.Sender(); u != nil {
		userID = u.ID
	}

	if cached, ok := ContextFrom(c); ok {
		if logger.ChatIDFrom(cached) != 0 || chatID == 0 {
			return cached
		}
		ctx := logger.WithUpdateMeta(cached, upd.ID, userID, chatID)
		StoreContext(c, ctx)
		return ctx
	}

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}
	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler records the handler name on the stored context.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
