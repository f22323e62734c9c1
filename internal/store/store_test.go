package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/store/storetest"
)

var t0 = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	return New(storetest.Open(t))
}

func seedUser(t *testing.T, s *Store, id int64) *models.User {
	t.Helper()
	u, err := s.UpsertUser(context.Background(), models.User{
		ID: id, FirstName: "User", IsPublic: true, ShareCode: "code" + string(rune('a'+id%26)) + "xyz", CreatedAt: t0,
	})
	require.NoError(t, err)
	return u
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	handle := "ann"

	u, err := s.UpsertUser(ctx, models.User{ID: 7, Username: &handle, FirstName: "Ann", IsPublic: true, ShareCode: "8f14e45f", CreatedAt: t0})
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FirstName)
	assert.True(t, u.IsPublic)
	assert.True(t, t0.Equal(u.CreatedAt))

	again, err := s.UpsertUser(ctx, models.User{ID: 7, FirstName: "Other", ShareCode: "8f14e45f", CreatedAt: t0.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.FirstName)
	require.NotNil(t, again.Username)
	assert.Equal(t, "ann", *again.Username)

	byCode, err := s.GetUserByShareCode(ctx, "8f14e45f")
	require.NoError(t, err)
	assert.Equal(t, int64(7), byCode.ID)

	_, err = s.GetUserByShareCode(ctx, "00000000")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUser(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUserVisibility(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedUser(t, s, 1)

	require.NoError(t, s.SetUserVisibility(ctx, 1, false))
	u, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.False(t, u.IsPublic)

	assert.ErrorIs(t, s.SetUserVisibility(ctx, 404, true), ErrNotFound)
}

func TestWishCRUD(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedUser(t, s, 1)
	seedUser(t, s, 2)

	w, err := s.CreateWish(ctx, 1, models.NewWish{Title: "Red Bicycle", Price: models.Ptr("250 USD")}, t0)
	require.NoError(t, err)
	assert.NotZero(t, w.ID)
	assert.Equal(t, "Red Bicycle", w.Title)
	assert.Nil(t, w.Description)
	require.NotNil(t, w.Price)
	assert.Equal(t, "250 USD", *w.Price)

	n, err := s.CountWishesByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.UpdateWish(ctx, w.ID, 2, models.FieldTitle.Set("Stolen"), t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)

	upd, err := s.UpdateWish(ctx, w.ID, 1, models.WishUpdate{
		Description: models.Ptr("with a bell"),
		Price:       new(string),
	}, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Red Bicycle", upd.Title)
	require.NotNil(t, upd.Description)
	assert.Equal(t, "with a bell", *upd.Description)
	assert.Nil(t, upd.Price, "empty value clears the column")
	assert.True(t, t0.Add(time.Hour).Equal(upd.UpdatedAt))
	assert.True(t, t0.Equal(upd.CreatedAt))

	rows, err := s.DeleteWish(ctx, w.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = s.DeleteWish(ctx, w.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = s.GetWish(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWishesNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedUser(t, s, 1)
	seedUser(t, s, 2)

	for i, title := range []string{"first", "second", "third"} {
		_, err := s.CreateWish(ctx, 1, models.NewWish{Title: title}, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	_, err := s.CreateWish(ctx, 1, models.NewWish{Title: "same-time"}, t0.Add(2*time.Minute))
	require.NoError(t, err)
	_, err = s.CreateWish(ctx, 2, models.NewWish{Title: "other user"}, t0)
	require.NoError(t, err)

	list, err := s.ListWishesByUser(ctx, 1)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, w := range list {
		titles = append(titles, w.Title)
	}
	assert.Equal(t, []string{"same-time", "third", "second", "first"}, titles)

	empty, err := s.ListWishesByUser(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDeletingUserCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedUser(t, s, 1)
	_, err := s.CreateWish(ctx, 1, models.NewWish{Title: "gift"}, t0)
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `DELETE FROM users WHERE id = 1`)
	require.NoError(t, err)

	n, err := s.CountWishesByUser(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStats(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedUser(t, s, 1)
	seedUser(t, s, 2)
	require.NoError(t, s.SetUserVisibility(ctx, 2, false))
	_, err := s.CreateWish(ctx, 1, models.NewWish{Title: "a"}, t0)
	require.NoError(t, err)
	_, err = s.CreateWish(ctx, 1, models.NewWish{Title: "b"}, t0)
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 2, PublicUsers: 1, Wishes: 2, UsersWithAny: 1}, st)
}
