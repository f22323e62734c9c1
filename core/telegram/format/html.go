// Package format prepares user supplied text for Telegram HTML parse mode.
package format

import (
	"html"
	"strings"
)

// Escape makes s safe inside an HTML formatted message.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Bold wraps escaped s in <b>.
func Bold(s string) string {
	return "<b>" + Escape(s) + "</b>"
}

// Italic wraps escaped s in <i>.
func Italic(s string) string {
	return "<i>" + Escape(s) + "</i>"
}

// Code wraps escaped s in <code>.
func Code(s string) string {
	return "<code>" + Escape(s) + "</code>"
}

// Link renders an anchor with escaped label and href.
func Link(href, label string) string {
	return `<a href="` + Escape(href) + `">` + Escape(label) + "</a>"
}

// Truncate cuts s to max runes, appending an ellipsis when shortened.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}

// Deref returns *s or def when s is nil or blank.
func Deref(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}
