package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/wishbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start", Order: 1})
	r.RegisterCommand("/add", commands.Command{Handler: noop, Description: "Add", Order: 2, Aliases: []string{"➕ Add a wish"}})
	r.RegisterCommand("/help", commands.Command{Handler: noop, Description: "Help", Order: 2})
	r.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true})
	r.RegisterCommand("nope", commands.Command{Handler: noop, Description: "skipped"})
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "dup"})

	list := r.ListCommands(true)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"start", "add", "help"}, []string{list[0].Text, list[1].Text, list[2].Text})
	assert.Equal(t, "Start", list[0].Description)
	assert.Len(t, r.ListCommands(false), 4)

	key, _, ok := r.LookupAlias("➕ Add a wish")
	require.True(t, ok)
	assert.Equal(t, "/add", key)

	_, _, ok = r.LookupAlias("add")
	assert.False(t, ok, "plain words are not aliases")

	key, _, ok = r.LookupCommand("help")
	require.True(t, ok)
	assert.Equal(t, "/help", key)
}

func TestRegistryCallbacks(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterCallback("wish_edit", noop))
	require.Error(t, r.RegisterCallback("wish_edit", noop))
	require.Error(t, r.RegisterCallback("", noop))
	require.NoError(t, r.RegisterCallback("wish_delete", noop))

	_, ok := r.GetCallback("wish_edit")
	assert.True(t, ok)
	_, ok = r.GetCallback("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"wish_delete", "wish_edit"}, r.ListCallbacks())
}

type fakeSetter struct {
	got []tele.Command
	err error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.got = opts[0].([]tele.Command)
	return nil
}

func TestSetupCommands(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/help", commands.Command{Handler: noop, Description: "Help"})
	r.RegisterCommand("/secret", commands.Command{Handler: noop, Description: "x", Hidden: true})

	s := &fakeSetter{}
	SetupCommands(s, r)
	require.Len(t, s.got, 1)
	assert.Equal(t, "help", s.got[0].Text)

	SetupCommands(&fakeSetter{err: errors.New("boom")}, r)
	SetupCommands(nil, r)
}
