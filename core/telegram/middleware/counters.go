package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "reply_counters"

type replyCounters struct {
	messages atomic.Int32
	keyboard atomic.Bool
}

// countingContext wraps tele.Context to count replies and keyboard usage.
type countingContext struct {
	tele.Context
	counters *replyCounters
}

func (m countingContext) note(err error, opts []interface{}) error {
	if err == nil {
		m.counters.messages.Add(1)
		if hasKeyboard(opts) {
			m.counters.keyboard.Store(true)
		}
	}
	return err
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send.
func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	return m.note(m.Context.Send(what, opts...), opts)
}

// Reply proxies tele.Context.Reply.
func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	return m.note(m.Context.Reply(what, opts...), opts)
}

// Edit proxies tele.Context.Edit; edits count as replies.
func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	return m.note(m.Context.Edit(what, opts...), opts)
}

// EditOrSend proxies tele.Context.EditOrSend.
func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return m.note(m.Context.EditOrSend(what, opts...), opts)
}

// ReplyCountersMiddleware counts replies produced while handling an update.
func ReplyCountersMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		counters := &replyCounters{}
		c.Set(countersKey, counters)
		return next(countingContext{Context: c, counters: counters})
	}
}

// GetCounters reads reply count and keyboard presence for the current update.
func GetCounters(c tele.Context) (int, bool) {
	counters, _ := c.Get(countersKey).(*replyCounters)
	if counters == nil {
		return 0, false
	}
	return int(counters.messages.Load()), counters.keyboard.Load()
}
