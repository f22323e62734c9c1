package commands

import tele "gopkg.in/telebot.v4"

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	// Aliases are exact texts, usually reply-keyboard labels, that run the command.
	Aliases []string
	// Order positions the command in the Telegram menu; ties sort by name.
	Order int
}
