package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"a", "b"}, []string{"c"})
	require.Len(t, m.ReplyKeyboard, 2)
	assert.True(t, m.ResizeKeyboard)
	assert.Equal(t, "a", m.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "b", m.ReplyKeyboard[0][1].Text)
	assert.Equal(t, "c", m.ReplyKeyboard[1][0].Text)
}

func TestInlineButtonsRows(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "Edit", Unique: "wish_edit", Data: "7"}, {Text: "Delete", Unique: "wish_delete", Data: "7"}},
	)
	require.Len(t, m.InlineKeyboard, 1)
	require.Len(t, m.InlineKeyboard[0], 2)
	assert.Equal(t, "Edit", m.InlineKeyboard[0][0].Text)
	assert.Equal(t, "wish_edit", m.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "7", m.InlineKeyboard[0][0].Data)

	one := InlineButtons([]InlineBtn{{Text: "x", Unique: "u"}, {Text: "y", Unique: "v"}})
	assert.Len(t, one.InlineKeyboard, 2)
}
