package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSetTouchesOnlyOneSlot(t *testing.T) {
	u := FieldPrice.Set("250 USD")
	require.NotNil(t, u.Price)
	assert.Equal(t, "250 USD", *u.Price)
	assert.Nil(t, u.Title)
	assert.Nil(t, u.Description)
	assert.Nil(t, u.URL)
	assert.Nil(t, u.ImageFileID)
	assert.False(t, u.Empty())
	assert.True(t, WishUpdate{}.Empty())
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, ok := ParseField(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	_, ok := ParseField("owner")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	handle := "ann"
	assert.Equal(t, "Ann", User{FirstName: "Ann", Username: &handle}.DisplayName())
	assert.Equal(t, "@ann", User{Username: &handle}.DisplayName())
	assert.Equal(t, "User", User{}.DisplayName())
}

func TestPtr(t *testing.T) {
	assert.Nil(t, Ptr(""))
	assert.Equal(t, "x", *Ptr("x"))
}
