// Package callbacks decodes inline button data produced by telebot.
package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Sep separates payload parts inside a callback.
const Sep = "|"

// Parse splits Telebot's "\f<unique>|<payload>" encoding into unique and payload.
func Parse(data string) (string, string) {
	raw := strings.TrimPrefix(data, "\f")
	unique, payload, _ := strings.Cut(raw, Sep)
	return strings.TrimSpace(unique), payload
}

// Key returns the unique key of the current callback.
func Key(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := Parse(cb.Data)
	return k
}

// Payload returns the payload of the current callback.
func Payload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Data
	}
	_, p := Parse(cb.Data)
	return p
}

// PayloadInt64 parses the payload as int64.
func PayloadInt64(c tele.Context) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(Payload(c)), 10, 64)
}

// PayloadNameID parses payloads shaped like "<name>|<id>".
func PayloadNameID(c tele.Context) (string, int64, error) {
	return ParseNameID(Payload(c))
}

// ParseNameID is PayloadNameID over a raw payload.
func ParseNameID(payload string) (string, int64, error) {
	name, rawID, ok := strings.Cut(payload, Sep)
	if !ok || name == "" {
		return "", 0, strconv.ErrSyntax
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return "", 0, err
	}
	return name, id, nil
}

// Join builds a multi-part payload.
func Join(parts ...string) string {
	return strings.Join(parts, Sep)
}
