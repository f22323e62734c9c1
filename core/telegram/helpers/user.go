package helpers

import tele "gopkg.in/telebot.v4"

// Profile is the subset of the Telegram sender used to register users.
type Profile struct {
	ID        int64
	Username  string
	FirstName string
}

// SenderProfile extracts the sender of the current update.
func SenderProfile(c tele.Context) (Profile, bool) {
	u := c.Sender()
	if u == nil || u.ID == 0 {
		return Profile{}, false
	}
	return Profile{ID: u.ID, Username: u.Username, FirstName: u.FirstName}, true
}

// ChatID returns the chat of the current update, falling back to the sender.
func ChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}
